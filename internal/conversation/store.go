package conversation

import (
	"fmt"
	"sync"
)

// Store holds the live contexts keyed by session ID. All mutation goes
// through Update, which runs the caller's function under that session's
// lock, so concurrent events for different sessions never contend and
// concurrent events for the same session serialize.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	mu  sync.Mutex
	ctx *Context
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*storeEntry)}
}

// Put registers a fresh context for a session. It fails if the session
// already exists.
func (s *Store) Put(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[ctx.SessionID]; ok {
		return fmt.Errorf("conversation: session %s already exists", ctx.SessionID)
	}
	s.entries[ctx.SessionID] = &storeEntry{ctx: ctx}
	return nil
}

// Get returns a snapshot of a session's context. The snapshot is a deep
// copy: mutating it has no effect on the stored state.
func (s *Store) Get(sessionID string) (*Context, bool) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.clone(), true
}

// Update runs fn on the session's context under its lock. A frozen
// context rejects the update before fn runs. If fn returns an error the
// context is restored to its pre-update state.
func (s *Store) Update(sessionID string, fn func(*Context) error) error {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("conversation: session %s not found", sessionID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.Frozen {
		return fmt.Errorf("conversation: session %s is frozen", sessionID)
	}
	backup := e.ctx.clone()
	if err := fn(e.ctx); err != nil {
		e.ctx = backup
		return err
	}
	return nil
}

// Freeze marks a context immutable. Subsequent Updates fail; Get still
// serves snapshots for aggregation and inspection.
func (s *Store) Freeze(sessionID string) error {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("conversation: session %s not found", sessionID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Frozen = true
	return nil
}

// Delete removes a session's context.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Len reports the number of live contexts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
