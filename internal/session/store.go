// Package session holds the portal's process-wide session state: which
// bearer tokens are logged in, and which of them have a live exam attempt.
// Nothing here survives a restart; durable state belongs to the backend.
package session

import (
	"sync"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/model"
)

// User is one authenticated portal session: the backend-issued bearer
// token, the role extracted from it, and the cached profile.
type User struct {
	Token   string
	Role    model.Role
	Profile backend.AuthUser
}

// Store is an in-memory session store with an explicit lifecycle: login
// puts, logout deletes, Close drops everything on shutdown.
type Store struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by token
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{users: make(map[string]*User)}
}

// Put registers an authenticated session.
func (s *Store) Put(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Token] = u
}

// Get returns the session for a token, or nil.
func (s *Store) Get(token string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[token]
}

// Delete removes a session on logout.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, token)
}

// Close drops all sessions.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
}
