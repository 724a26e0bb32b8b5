package exam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// Status tracks a student's interaction with one question.
type Status string

const (
	StatusNotAttempted Status = "not-attempted"
	StatusAnswered     Status = "answered"
	StatusSkipped      Status = "skipped"
)

// State is the session's exit-guard state machine.
type State string

const (
	StateActive            State = "active"
	StateExitPromptEmpty   State = "exit-prompt-empty"
	StateExitPromptAnswers State = "exit-prompt-with-answers"
	StateSubmitted         State = "submitted"
	StateCancelled         State = "cancelled"
)

// Direction moves the current position by one question.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// Backend is the slice of the REST backend a running session depends on.
type Backend interface {
	SubmitAnswers(ctx context.Context, token, examID string, answers map[string]string) error
	CancelExam(ctx context.Context, token, examID string) error
}

// EventType identifies a session event pushed to the exam UI.
type EventType string

const (
	EventTick      EventType = "tick"
	EventTimeUp    EventType = "time-up"
	EventSubmitted EventType = "submitted"
	EventCancelled EventType = "cancelled"
)

// Event is a countdown or lifecycle notification.
type Event struct {
	Type             EventType `json:"event"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// Session owns one timed exam attempt from assembly through submission.
// All mutation goes through its methods; the embedded mutex makes the
// countdown tick safe against user-driven calls.
type Session struct {
	mu sync.Mutex

	backend Backend
	log     zerolog.Logger

	token  string
	examID string

	questions []model.Question
	index     map[string]int // question ID -> position in sequence

	pos        int
	answers    map[string]string
	statuses   map[string]Status
	remaining  int
	state      State
	submitting bool

	timerStop chan struct{}
	stopOnce  sync.Once
	events    chan Event
}

// NewSession creates a session at position 0 with an empty answer mapping
// and the countdown initialized to the full duration.
func NewSession(token, examID string, questions []model.Question, duration time.Duration, backend Backend, log zerolog.Logger) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoActiveExam
	}

	index := make(map[string]int, len(questions))
	statuses := make(map[string]Status, len(questions))
	for i, q := range questions {
		index[q.ID] = i
		statuses[q.ID] = StatusNotAttempted
	}

	return &Session{
		backend:   backend,
		log:       log.With().Str("component", "exam_session").Str("exam_id", examID).Logger(),
		token:     token,
		examID:    examID,
		questions: questions,
		index:     index,
		answers:   make(map[string]string),
		statuses:  statuses,
		remaining: int(duration / time.Second),
		state:     StateActive,
		timerStop: make(chan struct{}),
		events:    make(chan Event, 16),
	}, nil
}

// ExamID returns the backend exam record identifier for this attempt.
func (s *Session) ExamID() string { return s.examID }

// Events exposes countdown and lifecycle events for the WebSocket stream.
func (s *Session) Events() <-chan Event { return s.events }

// Run drives the one-second countdown until expiry, teardown, or a terminal
// state. When the counter reaches zero the timer is stopped first, then the
// regular submission path runs exactly once.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.timerStop:
			return
		case <-ticker.C:
			if expired := s.tick(); expired {
				s.stopTimer()
				s.autoSubmit(ctx)
				return
			}
		}
	}
}

// Close tears the timer down unconditionally, regardless of completion
// state. Safe to call more than once.
func (s *Session) Close() {
	s.stopTimer()
}

// tick decrements the countdown by one second and reports whether it just
// reached zero. The counter never increases and never goes below zero.
func (s *Session) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted || s.state == StateCancelled {
		return false
	}
	if s.remaining <= 0 {
		return false
	}

	s.remaining--
	s.emit(Event{Type: EventTick, RemainingSeconds: s.remaining})
	if s.remaining == 0 {
		s.emit(Event{Type: EventTimeUp})
		return true
	}
	return false
}

// Answer records the selected option for a question. No correctness
// validation happens here; scoring is the backend's job.
func (s *Session) Answer(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted || s.state == StateCancelled {
		return ErrFinished
	}
	if _, ok := s.index[questionID]; !ok {
		return ErrUnknownQuestion
	}

	s.answers[questionID] = value
	s.statuses[questionID] = StatusAnswered
	return nil
}

// Navigate moves the position by one question, clamped at both ends.
// Leaving an unanswered question marks it skipped; an answered question
// never downgrades.
func (s *Session) Navigate(dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted || s.state == StateCancelled {
		return ErrFinished
	}

	current := s.questions[s.pos]
	if _, answered := s.answers[current.ID]; !answered {
		s.statuses[current.ID] = StatusSkipped
	}

	switch dir {
	case DirectionNext:
		if s.pos < len(s.questions)-1 {
			s.pos++
		}
	case DirectionPrev:
		if s.pos > 0 {
			s.pos--
		}
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	return nil
}

// JumpTo sets the position directly. The question being left keeps its
// status untouched.
func (s *Session) JumpTo(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted || s.state == StateCancelled {
		return ErrFinished
	}
	if position < 0 || position >= len(s.questions) {
		return ErrOutOfRange
	}

	s.pos = position
	return nil
}

// Submit sends the accumulated answers to the backend in one call. It is
// the single submission entry point for manual, timeout, and forced-exit
// triggers; an in-flight submission causes ErrSubmitInFlight and no second
// network call. On failure the session stays active with answers intact.
func (s *Session) Submit(ctx context.Context) error {
	answers, err := s.beginSubmit()
	if err != nil {
		return err
	}

	err = s.backend.SubmitAnswers(ctx, s.token, s.examID, answers)
	s.finishSubmit(err)
	if err != nil {
		return fmt.Errorf("submit exam: %w", err)
	}
	return nil
}

// beginSubmit flips the in-flight guard and snapshots the answers.
func (s *Session) beginSubmit() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted || s.state == StateCancelled {
		return nil, ErrFinished
	}
	if s.submitting {
		return nil, ErrSubmitInFlight
	}
	s.submitting = true

	answers := make(map[string]string, len(s.answers))
	for id, v := range s.answers {
		answers[id] = v
	}
	return answers, nil
}

// finishSubmit resolves the in-flight guard. Only a confirmed success
// transitions to the terminal submitted state; answers are never cleared.
func (s *Session) finishSubmit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	if err != nil {
		return
	}
	s.state = StateSubmitted
	s.emit(Event{Type: EventSubmitted})
	go s.stopTimer()
}

// autoSubmit runs the submission path after timer expiry. A failure is
// logged and the session stays active so the student can retry manually.
func (s *Session) autoSubmit(ctx context.Context) {
	err := s.Submit(ctx)
	switch {
	case err == nil:
		s.log.Info().Msg("Exam auto-submitted on timeout")
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrFinished):
		// A manual submit won the race; nothing to do.
	default:
		s.log.Error().Err(err).Msg("Timeout auto-submit failed; answers retained")
	}
}

// Cancel abandons the attempt: the backend discards it and the session
// reaches the terminal cancelled state. Refused while a submission is in
// flight.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSubmitted || s.state == StateCancelled {
		s.mu.Unlock()
		return ErrFinished
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.mu.Unlock()

	if err := s.backend.CancelExam(ctx, s.token, s.examID); err != nil {
		return fmt.Errorf("cancel exam: %w", err)
	}

	s.mu.Lock()
	s.state = StateCancelled
	s.emit(Event{Type: EventCancelled})
	s.mu.Unlock()
	s.stopTimer()
	return nil
}

// RequestExit handles a navigation-away or refresh attempt. With no answers
// recorded it offers cancel; with at least one it offers submit-now.
func (s *Session) RequestExit() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSubmitted, StateCancelled:
		return s.state, ErrFinished
	case StateExitPromptEmpty, StateExitPromptAnswers:
		return s.state, nil
	}

	if len(s.answers) == 0 {
		s.state = StateExitPromptEmpty
	} else {
		s.state = StateExitPromptAnswers
	}
	return s.state, nil
}

// Resume dismisses a pending exit prompt and returns to active.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateExitPromptEmpty, StateExitPromptAnswers:
		s.state = StateActive
		return nil
	case StateSubmitted, StateCancelled:
		return ErrFinished
	default:
		return ErrNotPrompted
	}
}

// ConfirmExit resolves a pending exit prompt: cancel when no answers were
// recorded, submit-now otherwise. The answer count is re-read here, not
// taken from the prompt variant, so an answer recorded after RequestExit
// is never discarded by the cancel path.
func (s *Session) ConfirmExit(ctx context.Context) (State, error) {
	s.mu.Lock()
	state := s.state
	hasAnswers := len(s.answers) > 0
	s.mu.Unlock()

	switch state {
	case StateExitPromptEmpty, StateExitPromptAnswers:
		if hasAnswers {
			if err := s.Submit(ctx); err != nil {
				return state, err
			}
			return StateSubmitted, nil
		}
		if err := s.Cancel(ctx); err != nil {
			return state, err
		}
		return StateCancelled, nil
	case StateSubmitted, StateCancelled:
		return state, ErrFinished
	default:
		return state, ErrNotPrompted
	}
}

func (s *Session) stopTimer() {
	s.stopOnce.Do(func() { close(s.timerStop) })
}

// emit pushes an event without ever blocking the session lock holder.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
