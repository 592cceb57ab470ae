package session

import (
	"sync"
	"time"
)

// Store is the in-memory session store. Sessions live for the process
// lifetime: there is no capacity bound and no expiry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Context
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Context),
	}
}

// Save upserts the session by its ID and refreshes its UpdatedAt.
func (s *Store) Save(ctx *Context) {
	if ctx == nil || ctx.SessionID == "" {
		return
	}
	ctx.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ctx.SessionID] = ctx.clone()
}

// Find returns a snapshot of the session for the ID. The snapshot is a
// copy; later store mutations do not show through it.
func (s *Store) Find(sessionID string) (*Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return ctx.clone(), true
}

// Delete removes the session. No-op when absent.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Update applies fn to the stored session under the write lock. Returns
// false when the session does not exist.
func (s *Store) Update(sessionID string, fn func(*Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	fn(ctx)
	return true
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns the stored session IDs in no particular order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
