// Package store persists the engine state snapshot between runs.
package store

import (
	"context"
	"errors"

	"github.com/spigell/intervu/internal/interview"
)

// View is the tab the user last had open.
type View string

const (
	ViewInterviewee View = "interviewee"
	ViewInterviewer View = "interviewer"
)

// ErrNotFound indicates no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the engine state as a pure data structure: the completed
// sessions, the possibly unfinished active session, and the active view.
type Snapshot struct {
	Roster     []*interview.Session `json:"roster"`
	Active     *interview.Session   `json:"active,omitempty"`
	ActiveView View                 `json:"active_view"`
}

// Store is the snapshot persistence contract. Save is called after every
// engine mutation; Load once at startup to decide whether to offer resuming
// an unfinished session.
type Store interface {
	// Load returns the last saved snapshot, or ErrNotFound.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
	// Close releases any resources held by the store.
	Close() error
}
