package session

import (
	"context"
	"errors"
	"sync"

	"github.com/goodlyheritage/entrance-portal/internal/exam"
)

// ErrExamInProgress means the user already has a live exam session.
var ErrExamInProgress = errors.New("exam session already in progress")

// ExamRegistry tracks live exam sessions per user and owns their timer
// goroutines. A session's timer is torn down when it is detached, whatever
// the completion state.
type ExamRegistry struct {
	mu       sync.Mutex
	sessions map[string]*exam.Session
	cancels  map[string]context.CancelFunc
}

// NewExamRegistry creates an empty registry.
func NewExamRegistry() *ExamRegistry {
	return &ExamRegistry{
		sessions: make(map[string]*exam.Session),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Attach registers a session for a user and starts its countdown. A user
// with a live non-terminal session cannot attach a second one.
func (r *ExamRegistry) Attach(userKey string, sess *exam.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[userKey]; ok {
		state := existing.CurrentState()
		if state != exam.StateSubmitted && state != exam.StateCancelled {
			return ErrExamInProgress
		}
		r.teardownLocked(userKey)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.sessions[userKey] = sess
	r.cancels[userKey] = cancel
	go sess.Run(ctx)
	return nil
}

// Get returns the live session for a user, or nil.
func (r *ExamRegistry) Get(userKey string) *exam.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userKey]
}

// Detach stops a user's session timer and forgets the session. Local state
// is discarded; re-entering the exam flow starts over from backend data.
func (r *ExamRegistry) Detach(userKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownLocked(userKey)
}

// Close tears down every live session, for shutdown.
func (r *ExamRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.sessions {
		r.teardownLocked(key)
	}
}

func (r *ExamRegistry) teardownLocked(userKey string) {
	if cancel, ok := r.cancels[userKey]; ok {
		cancel()
		delete(r.cancels, userKey)
	}
	if sess, ok := r.sessions[userKey]; ok {
		sess.Close()
		delete(r.sessions, userKey)
	}
}
