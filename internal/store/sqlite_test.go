package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/intervu/internal/interview"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "intervu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSnapshot() *Snapshot {
	completed := &interview.Session{
		ID:         "done-1",
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Role:       "Full Stack Developer",
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "555-123-4567",
		Phase:      interview.PhaseCompleted,
		TotalScore: 30,
		Summary:    "Good candidate with solid understanding. Recommended with minor training.",
		Completed:  true,
		Questions: []*interview.Question{
			{Text: "What is a closure?", Difficulty: "easy", TimeLimitSeconds: 15,
				Answer: "a function plus its environment", Score: 3, Answered: true},
		},
		ChatHistory: []*interview.ChatMessage{
			{Origin: interview.OriginBot, Text: "Question 1 (Easy - 15s): What is a closure?", IsQuestionPrompt: true},
			{Origin: interview.OriginUser, Text: "a function plus its environment"},
		},
	}

	active := &interview.Session{
		ID:            "active-1",
		CreatedAt:     time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
		Role:          "Full Stack Developer",
		Email:         "bob@example.com",
		Phase:         interview.PhaseFieldCollection,
		MissingFields: []interview.Field{interview.FieldName, interview.FieldPhone},
	}

	return &Snapshot{
		Roster:     []*interview.Session{completed},
		Active:     active,
		ActiveView: ViewInterviewer,
	}
}

func TestSQLiteLoadFresh(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	saved := sampleSnapshot()
	require.NoError(t, s.Save(ctx, saved))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, ViewInterviewer, loaded.ActiveView)

	require.Len(t, loaded.Roster, 1)
	got := loaded.Roster[0]
	assert.Equal(t, "done-1", got.ID)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, 30, got.TotalScore)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "a function plus its environment", got.Questions[0].Answer)
	require.Len(t, got.ChatHistory, 2)
	assert.True(t, got.ChatHistory[0].IsQuestionPrompt)

	require.NotNil(t, loaded.Active)
	assert.Equal(t, "active-1", loaded.Active.ID)
	assert.Equal(t, []interview.Field{interview.FieldName, interview.FieldPhone}, loaded.Active.MissingFields)
}

func TestSQLiteSaveReplacesSnapshot(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSnapshot()))

	// The active session has completed: it moves into the roster and the
	// active state key must be cleared.
	second := sampleSnapshot()
	second.Roster = append(second.Roster, second.Active)
	second.Active = nil
	second.ActiveView = ViewInterviewee
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Nil(t, loaded.Active)
	assert.Equal(t, ViewInterviewee, loaded.ActiveView)
	require.Len(t, loaded.Roster, 2)
	assert.Equal(t, "done-1", loaded.Roster[0].ID)
	assert.Equal(t, "active-1", loaded.Roster[1].ID)
}

func TestSQLiteRosterKeepsAppendOrder(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	snapshot := &Snapshot{ActiveView: ViewInterviewee}
	for _, id := range []string{"c", "a", "b"} {
		snapshot.Roster = append(snapshot.Roster, &interview.Session{
			ID: id, Name: id, Email: id + "@example.com",
			CreatedAt: time.Now().UTC(), Completed: true,
		})
	}
	require.NoError(t, s.Save(ctx, snapshot))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	require.Len(t, loaded.Roster, 3)
	for i, id := range []string{"c", "a", "b"} {
		assert.Equal(t, id, loaded.Roster[i].ID)
	}
}

func TestSQLiteEmptyRosterWithViewIsFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Snapshot{ActiveView: ViewInterviewee}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Roster)
	assert.Nil(t, loaded.Active)
	assert.Equal(t, ViewInterviewee, loaded.ActiveView)
}

func TestSQLiteReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intervu.db")
	ctx := context.Background()

	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleSnapshot()))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Roster, 1)
	require.NotNil(t, loaded.Active)
	assert.Equal(t, "active-1", loaded.Active.ID)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	saved := sampleSnapshot()
	require.NoError(t, m.Save(ctx, saved))

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active-1", loaded.Active.ID)

	// Mutating a loaded snapshot must not affect what the next Load sees.
	loaded.Active.Name = "Mallory"
	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Active.Name)
}
