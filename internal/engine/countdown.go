package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// countdown is one question's timer. A new countdown supersedes the old one;
// a superseded or stopped countdown never submits. The timeout submission
// itself runs under the engine mutex, so it can never race a manual answer:
// whichever acquires the lock first wins and the loser sees the question as
// already advanced.
type countdown struct {
	index int
	stop  chan struct{}
}

// startCountdownLocked arms the timer for the question at index with the
// given budget in seconds. Callers must hold e.mu.
func (e *Engine) startCountdownLocked(seconds, index int) {
	e.stopCountdownLocked()

	c := &countdown{index: index, stop: make(chan struct{})}
	e.countdown = c
	e.remaining = seconds

	go e.runCountdown(c)
}

// stopCountdownLocked disarms any pending timer. Callers must hold e.mu.
func (e *Engine) stopCountdownLocked() {
	if e.countdown != nil {
		close(e.countdown.stop)
		e.countdown = nil
	}
	e.remaining = 0
}

func (e *Engine) runCountdown(c *countdown) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if e.countdownTick(c) {
				return
			}
		}
	}
}

// countdownTick consumes one second of the question budget and fires the
// timeout path when it runs out. It reports whether the countdown is done.
func (e *Engine) countdownTick(c *countdown) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Superseded by a newer countdown or stopped while we waited.
	if e.countdown != c {
		return true
	}
	if e.active == nil || e.active.Completed {
		return true
	}
	if e.active.CurrentQuestionIndex != c.index {
		return true
	}
	if e.active.Paused {
		return false
	}

	e.remaining--
	if e.remaining > 0 {
		return false
	}

	sessionID := e.active.ID
	if err := e.active.SubmitTimeout(); err != nil {
		e.logger.Warn("timeout submission rejected",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return true
	}

	e.logger.Info("question timed out",
		zap.String("session_id", sessionID),
		zap.Int("question_index", c.index),
	)

	e.afterMutationLocked()

	if err := e.saveLocked(context.Background()); err != nil {
		e.logger.Warn("saving snapshot after timeout", zap.Error(err))
	}

	return true
}
