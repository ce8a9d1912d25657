// Package roster holds completed interview sessions for reviewer queries.
package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/intervu/internal/interview"
)

// Sort orders for roster queries.
type Sort string

const (
	// SortByScore orders candidates by descending total score.
	SortByScore Sort = "score"
	// SortByName orders candidates by ascending name.
	SortByName Sort = "name"
)

// ParseSort validates a sort order coming from flags or prompts.
func ParseSort(value string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(value))) {
	case SortByScore, "":
		return SortByScore, nil
	case SortByName:
		return SortByName, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s", value)
	}
}

// Roster is the collection of completed sessions. Sessions inside it are
// treated as immutable; appending is the only mutation and is performed
// solely by the engine when a session completes.
type Roster struct {
	sessions []*interview.Session
}

// New creates a roster over the given completed sessions.
func New(sessions []*interview.Session) *Roster {
	return &Roster{sessions: sessions}
}

// Append adds a completed session.
func (r *Roster) Append(s *interview.Session) {
	r.sessions = append(r.sessions, s)
}

// Len reports how many completed sessions the roster holds.
func (r *Roster) Len() int {
	return len(r.sessions)
}

// Sessions returns the stored sessions in append order.
func (r *Roster) Sessions() []*interview.Session {
	result := make([]*interview.Session, len(r.sessions))
	copy(result, r.sessions)
	return result
}

// FindByID returns the completed session with the given id, or nil.
func (r *Roster) FindByID(id string) *interview.Session {
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Query returns sessions whose name or email contains the search term
// (case-insensitive), ordered by the requested sort.
func (r *Roster) Query(search string, order Sort) []*interview.Session {
	search = strings.ToLower(strings.TrimSpace(search))

	result := make([]*interview.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if search == "" ||
			strings.Contains(strings.ToLower(s.Name), search) ||
			strings.Contains(strings.ToLower(s.Email), search) {
			result = append(result, s)
		}
	}

	switch order {
	case SortByName:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Name < result[j].Name
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalScore > result[j].TotalScore
		})
	}

	return result
}
