// Package interview implements the candidate session state machine.
//
// A session moves through three phases: contact field collection, timed
// questioning, and completion. Every transition is a single mutation method
// on Session; calling one outside its valid phase is a contract violation
// reported as ErrIllegalTransition. Session itself is not safe for
// concurrent use, callers must serialize mutations (see the engine package).
package interview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/intervu/internal/question"
	"github.com/spigell/intervu/internal/resume"
	"github.com/spigell/intervu/internal/scoring"
)

// ErrIllegalTransition reports an operation invoked outside its valid phase.
var ErrIllegalTransition = errors.New("illegal session transition")

// Phase is the session's coarse stage.
type Phase string

const (
	PhaseFieldCollection Phase = "field_collection"
	PhaseQuestioning     Phase = "questioning"
	PhaseCompleted       Phase = "completed"
)

// MessageOrigin identifies who produced a transcript message.
type MessageOrigin string

const (
	OriginSystem MessageOrigin = "system"
	OriginBot    MessageOrigin = "bot"
	OriginUser   MessageOrigin = "user"
)

// ChatMessage is one entry of the append-only session transcript.
type ChatMessage struct {
	Origin           MessageOrigin `json:"origin"`
	Text             string        `json:"text"`
	IsQuestionPrompt bool          `json:"is_question_prompt,omitempty"`
}

// Field names a contact attribute collected before questioning.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// fieldPriority is the fixed order in which missing fields are requested.
var fieldPriority = []Field{FieldName, FieldEmail, FieldPhone}

// Question is one asked question with its eventual answer and score.
// Text, difficulty and time limit are fixed once the list is built; answer
// and score are written exactly once, when the question is answered.
type Question struct {
	Text             string              `json:"text"`
	Difficulty       question.Difficulty `json:"difficulty"`
	TimeLimitSeconds int                 `json:"time_limit_seconds"`
	Answer           string              `json:"answer,omitempty"`
	Score            int                 `json:"score"`
	Answered         bool                `json:"answered"`
}

// Session is the aggregate root for one candidate's interview.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	ResumeUploaded bool `json:"resume_uploaded"`

	Phase                Phase          `json:"phase"`
	Questions            []*Question    `json:"questions"`
	CurrentQuestionIndex int            `json:"current_question_index"`
	TotalScore           int            `json:"total_score"`
	ChatHistory          []*ChatMessage `json:"chat_history"`
	Paused               bool           `json:"paused"`
	MissingFields        []Field        `json:"missing_fields,omitempty"`
	Completed            bool           `json:"completed"`
	Summary              string         `json:"summary,omitempty"`

	// specs is the drawn question list, materialized into Questions when
	// the session transitions to questioning.
	Specs []question.Spec `json:"specs"`
}

// NewSession creates a session in the field collection phase with the given
// drawn question list.
func NewSession(role string, specs []question.Spec) *Session {
	return &Session{
		ID:                   uuid.NewString(),
		CreatedAt:            time.Now().UTC(),
		Role:                 role,
		Phase:                PhaseFieldCollection,
		CurrentQuestionIndex: -1,
		Specs:                specs,
	}
}

// ApplyResume populates contact fields from an extracted document and either
// starts questioning (all fields known) or asks for the first missing one.
func (s *Session) ApplyResume(contact resume.Contact) error {
	if s.Phase != PhaseFieldCollection {
		return fmt.Errorf("%w: resume submitted in phase %s", ErrIllegalTransition, s.Phase)
	}

	if s.Name == "" {
		s.Name = strings.TrimSpace(contact.Name)
	}
	if s.Email == "" {
		s.Email = strings.TrimSpace(contact.Email)
	}
	if s.Phone == "" {
		s.Phone = strings.TrimSpace(contact.Phone)
	}

	s.ResumeUploaded = true
	s.appendMessage(OriginSystem, "Resume uploaded successfully! Let me extract your information...", false)

	s.MissingFields = s.missingFields()
	if len(s.MissingFields) == 0 {
		s.beginQuestioning()
		return nil
	}

	names := make([]string, 0, len(s.MissingFields))
	for _, field := range s.MissingFields {
		names = append(names, string(field))
	}

	s.appendMessage(OriginBot, fmt.Sprintf(
		"I extracted some information, but I need your %s. Let's start with your %s:",
		strings.Join(names, ", "), s.MissingFields[0],
	), false)

	return nil
}

// SubmitFieldAnswer assigns the answer to the first missing contact field.
// Legal only while fields are still being collected.
func (s *Session) SubmitFieldAnswer(text string) error {
	if s.Phase != PhaseFieldCollection {
		return fmt.Errorf("%w: field answer submitted in phase %s", ErrIllegalTransition, s.Phase)
	}
	if len(s.MissingFields) == 0 {
		return fmt.Errorf("%w: no missing fields to fill", ErrIllegalTransition)
	}

	text = strings.TrimSpace(text)
	s.appendMessage(OriginUser, text, false)

	switch s.MissingFields[0] {
	case FieldName:
		s.Name = text
	case FieldEmail:
		s.Email = text
	case FieldPhone:
		s.Phone = text
	}
	s.MissingFields = s.MissingFields[1:]

	if len(s.MissingFields) > 0 {
		s.appendMessage(OriginBot, fmt.Sprintf(
			"Thank you! Now, please provide your %s:", s.MissingFields[0],
		), false)
		return nil
	}

	s.beginQuestioning()
	return nil
}

// SubmitAnswer scores and records the answer to the current question, then
// advances to the next question or finalizes the session.
func (s *Session) SubmitAnswer(text string) error {
	if s.Phase != PhaseQuestioning {
		return fmt.Errorf("%w: answer submitted in phase %s", ErrIllegalTransition, s.Phase)
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return fmt.Errorf("%w: no question at index %d", ErrIllegalTransition, s.CurrentQuestionIndex)
	}

	current := s.Questions[s.CurrentQuestionIndex]
	if current.Answered {
		return fmt.Errorf("%w: question %d already answered", ErrIllegalTransition, s.CurrentQuestionIndex)
	}

	s.appendMessage(OriginUser, text, false)
	s.recordAnswer(current, text)
	s.advance()
	return nil
}

// SubmitTimeout records a timeout for the current question: it scores an
// empty answer and advances, exactly like SubmitAnswer but with a system
// notice instead of a user message.
func (s *Session) SubmitTimeout() error {
	if s.Phase != PhaseQuestioning {
		return fmt.Errorf("%w: timeout fired in phase %s", ErrIllegalTransition, s.Phase)
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return fmt.Errorf("%w: no question at index %d", ErrIllegalTransition, s.CurrentQuestionIndex)
	}

	current := s.Questions[s.CurrentQuestionIndex]
	if current.Answered {
		return fmt.Errorf("%w: question %d already answered", ErrIllegalTransition, s.CurrentQuestionIndex)
	}

	s.appendMessage(OriginSystem, "Time is up! Submitting your answer as is.", false)
	s.recordAnswer(current, "")
	s.advance()
	return nil
}

// SetPaused suspends or resumes the question countdown. It gates only the
// timer: a paused session still accepts answers.
func (s *Session) SetPaused(paused bool) error {
	if s.Completed {
		return fmt.Errorf("%w: pause toggled on a completed session", ErrIllegalTransition)
	}
	s.Paused = paused
	return nil
}

// CurrentQuestion returns the question awaiting an answer, or nil outside
// the questioning phase.
func (s *Session) CurrentQuestion() *Question {
	if s.Phase != PhaseQuestioning {
		return nil
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.CurrentQuestionIndex]
}

func (s *Session) recordAnswer(q *Question, text string) {
	q.Answer = text
	q.Score = scoring.Score(text, q.Difficulty)
	q.Answered = true
	s.TotalScore += q.Score
}

func (s *Session) advance() {
	next := s.CurrentQuestionIndex + 1
	if next < len(s.Questions) {
		s.CurrentQuestionIndex = next
		s.appendMessage(OriginBot, s.questionPrompt(next), true)
		return
	}

	s.CurrentQuestionIndex = len(s.Questions)
	s.Summary = scoring.Summary(s.TotalScore)
	s.appendMessage(OriginBot, fmt.Sprintf(
		"Interview completed! Your total score: %d/%d\n\nSummary: %s",
		s.TotalScore, question.MaxTotalScore(), s.Summary,
	), false)
	s.Completed = true
	s.Phase = PhaseCompleted
}

func (s *Session) beginQuestioning() {
	s.Questions = make([]*Question, 0, len(s.Specs))
	for _, spec := range s.Specs {
		s.Questions = append(s.Questions, &Question{
			Text:             spec.Text,
			Difficulty:       spec.Difficulty,
			TimeLimitSeconds: spec.TimeLimitSeconds,
		})
	}

	s.Phase = PhaseQuestioning
	s.CurrentQuestionIndex = 0
	s.MissingFields = nil

	s.appendMessage(OriginBot, fmt.Sprintf(
		"Great! Hello %s. Let's begin your %s interview. "+
			"You'll answer %d questions: %d Easy, %d Medium, and %d Hard. Each has a time limit. Ready?",
		s.Name, s.Role, len(s.Questions),
		question.QuestionsPerTier, question.QuestionsPerTier, question.QuestionsPerTier,
	), false)
	s.appendMessage(OriginBot, s.questionPrompt(0), true)
}

func (s *Session) questionPrompt(index int) string {
	q := s.Questions[index]
	return fmt.Sprintf("Question %d (%s - %ds): %s",
		index+1, q.Difficulty.Label(), q.TimeLimitSeconds, q.Text)
}

func (s *Session) appendMessage(origin MessageOrigin, text string, isPrompt bool) {
	s.ChatHistory = append(s.ChatHistory, &ChatMessage{
		Origin:           origin,
		Text:             text,
		IsQuestionPrompt: isPrompt,
	})
}

func (s *Session) missingFields() []Field {
	missing := make([]Field, 0, len(fieldPriority))
	for _, field := range fieldPriority {
		switch field {
		case FieldName:
			if s.Name == "" {
				missing = append(missing, field)
			}
		case FieldEmail:
			if s.Email == "" {
				missing = append(missing, field)
			}
		case FieldPhone:
			if s.Phone == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}
