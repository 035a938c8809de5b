package agent

import (
	"sync"
	"time"

	"contractscanner/internal/conversation"

	"github.com/google/uuid"
)

// session is one conversation. mu serializes its steps.
type session struct {
	mu       sync.Mutex
	state    conversation.State
	lastSeen time.Time
}

// Sessions is the set of live conversations. It is safe for concurrent use.
type Sessions struct {
	mu  sync.Mutex
	m   map[uuid.UUID]*session
	now func() time.Time
}

// NewSessions creates an empty session set.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[uuid.UUID]*session), now: time.Now}
}

// Create starts a conversation and returns its id.
func (s *Sessions) Create() uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = &session{lastSeen: s.now()}

	return id
}

// With runs fn on the state of conversation id while holding the session
// lock. It reports false when the conversation does not exist.
func (s *Sessions) With(id uuid.UUID, fn func(st *conversation.State)) bool {
	s.mu.Lock()
	sess, ok := s.m[id]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(&sess.state)

	return true
}

// Delete ends a conversation. It reports whether it existed.
func (s *Sessions) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.m[id]
	delete(s.m, id)

	return ok
}

// Len returns the number of live conversations.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.m)
}

// Sweep ends conversations idle for longer than ttl and returns how many.
func (s *Sessions) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	deadline := s.now().Add(-ttl)
	for id, sess := range s.m {
		if sess.lastSeen.Before(deadline) {
			delete(s.m, id)
			n++
		}
	}

	return n
}
