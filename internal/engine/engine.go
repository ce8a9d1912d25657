// Package engine drives interview sessions through their lifecycle.
//
// The engine is the single serialization point the concurrency contract
// requires: manual submissions and countdown timeouts for the same session
// all funnel through one mutex, so at most one submission can take effect
// per question. A snapshot is saved after every mutation.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intervu/internal/interview"
	"github.com/spigell/intervu/internal/logger"
	"github.com/spigell/intervu/internal/question"
	"github.com/spigell/intervu/internal/resume"
	"github.com/spigell/intervu/internal/roster"
	"github.com/spigell/intervu/internal/store"
)

// DefaultRole is the interview role used when the config does not set one.
const DefaultRole = "Full Stack Developer"

// ErrNoActiveSession is returned when an operation needs an active session
// and none exists.
var ErrNoActiveSession = errors.New("no active session")

// Config carries the engine collaborators.
type Config struct {
	Store     store.Store
	Extractor resume.Extractor
	Bank      *question.Bank
	Role      string
	Logger    *zap.Logger
	// TickInterval is how often the question countdown decrements by one
	// second of budget. Tests shrink it; zero means one real second.
	TickInterval time.Duration
}

// Engine owns the active session, the roster and the countdown.
type Engine struct {
	mu sync.Mutex

	store     store.Store
	extractor resume.Extractor
	bank      *question.Bank
	role      string
	logger    *zap.Logger
	tick      time.Duration

	roster    *roster.Roster
	active    *interview.Session
	view      store.View
	countdown *countdown
	remaining int
}

// New creates an engine. Load must be called before any session operation.
func New(cfg Config) *Engine {
	role := cfg.Role
	if role == "" {
		role = DefaultRole
	}

	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}

	bank := cfg.Bank
	if bank == nil {
		bank = question.Default()
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = resume.NewPlainExtractor()
	}

	return &Engine{
		store:     cfg.Store,
		extractor: extractor,
		bank:      bank,
		role:      role,
		logger:    log,
		tick:      tick,
		roster:    roster.New(nil),
		view:      store.ViewInterviewee,
	}
}

// Load restores the last snapshot. It reports whether an unfinished session
// is available to resume.
func (e *Engine) Load(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading snapshot: %w", err)
	}

	e.roster = roster.New(snapshot.Roster)
	e.view = snapshot.ActiveView
	e.active = snapshot.Active

	return e.active != nil && !e.active.Completed, nil
}

// StartSession discards any active session and creates a fresh one in the
// field collection phase.
func (e *Engine) StartSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopCountdownLocked()
	e.active = interview.NewSession(e.role, e.bank.Draw())

	e.logger.Info("session started",
		logger.SessionFields(e.active.ID, string(e.active.Phase))...)

	return e.saveLocked(ctx)
}

// ResumeSession rewires the countdown for a session restored by Load.
func (e *Engine) ResumeSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil || e.active.Completed {
		return ErrNoActiveSession
	}

	// The countdown itself is not persisted; a resumed question restarts
	// with its full time limit.
	if current := e.active.CurrentQuestion(); current != nil {
		e.startCountdownLocked(current.TimeLimitSeconds, e.active.CurrentQuestionIndex)
	}

	e.logger.Info("session resumed",
		logger.SessionFields(e.active.ID, string(e.active.Phase))...)

	return e.saveLocked(ctx)
}

// UploadResume extracts text from the document, derives contact fields and
// feeds them to the session. On extraction failure the session is untouched.
func (e *Engine) UploadResume(ctx context.Context, data []byte, filename string) error {
	format, err := resume.FormatFromFilename(filename)
	if err != nil {
		return err
	}

	text, err := e.extractor.Extract(data, format)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", filename, err)
	}

	contact := resume.ExtractContact(text)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return ErrNoActiveSession
	}

	if err := e.active.ApplyResume(contact); err != nil {
		return err
	}

	e.logger.Debug("resume applied",
		zap.String("session_id", e.active.ID),
		zap.Int("missing_fields", len(e.active.MissingFields)),
	)

	e.afterMutationLocked()
	return e.saveLocked(ctx)
}

// SubmitMessage routes the candidate's input to the transition the current
// phase expects: a contact field answer or a question answer.
func (e *Engine) SubmitMessage(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return ErrNoActiveSession
	}

	var err error
	switch e.active.Phase {
	case interview.PhaseFieldCollection:
		err = e.active.SubmitFieldAnswer(text)
	case interview.PhaseQuestioning:
		err = e.active.SubmitAnswer(text)
	default:
		err = fmt.Errorf("%w: message submitted in phase %s",
			interview.ErrIllegalTransition, e.active.Phase)
	}
	if err != nil {
		return err
	}

	e.afterMutationLocked()
	return e.saveLocked(ctx)
}

// TogglePause flips the countdown suspension and reports the new state.
// A paused session still accepts answers.
func (e *Engine) TogglePause(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return false, ErrNoActiveSession
	}

	if err := e.active.SetPaused(!e.active.Paused); err != nil {
		return false, err
	}

	return e.active.Paused, e.saveLocked(ctx)
}

// SetView records which tab the user has open.
func (e *Engine) SetView(ctx context.Context, view store.View) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.view = view
	return e.saveLocked(ctx)
}

// ActiveSession returns a detached copy of the active session, or nil.
func (e *Engine) ActiveSession() *interview.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return nil
	}
	return cloneSession(e.active)
}

// Remaining reports the seconds left on the current question's countdown.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Roster returns detached copies of the completed sessions in append order.
func (e *Engine) Roster() []*interview.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions := e.roster.Sessions()
	result := make([]*interview.Session, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, cloneSession(s))
	}
	return result
}

// Close stops the countdown. The store is closed by the caller that
// opened it.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdownLocked()
}

// afterMutationLocked reconciles the countdown and the roster with the
// session state after a successful transition.
func (e *Engine) afterMutationLocked() {
	if e.active == nil {
		return
	}

	if e.active.Completed {
		e.stopCountdownLocked()

		e.logger.Info("session completed",
			zap.String("session_id", e.active.ID),
			zap.Int("total_score", e.active.TotalScore),
			zap.String("summary", logger.TruncateForLog(e.active.Summary, 80)),
		)

		e.roster.Append(e.active)
		e.active = nil
		return
	}

	current := e.active.CurrentQuestion()
	if current == nil {
		e.stopCountdownLocked()
		return
	}

	if e.countdown == nil || e.countdown.index != e.active.CurrentQuestionIndex {
		e.startCountdownLocked(current.TimeLimitSeconds, e.active.CurrentQuestionIndex)
	}
}

func (e *Engine) saveLocked(ctx context.Context) error {
	snapshot := &store.Snapshot{
		Roster:     e.roster.Sessions(),
		Active:     e.active,
		ActiveView: e.view,
	}

	if err := e.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func cloneSession(s *interview.Session) *interview.Session {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}

	var clone interview.Session
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
