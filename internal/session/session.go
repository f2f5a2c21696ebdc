// Package session keeps the server-side record of logged in browsers.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gincana/placar/internal/domain"
)

// Session maps an opaque id to the user that logged in
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store is the capability the auth service needs from a session backend
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory; they do not survive a restart
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns a live session or domain.ErrSessionNotFound
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	cp := *s
	return &cp, nil
}

// Put stores or replaces a session and drops every expired one.
// A session that is already expired is not stored.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	cp := *s
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.sessions {
		if existing.Expired(now) {
			delete(m.sessions, id)
		}
	}
	if !cp.Expired(now) {
		m.sessions[cp.ID] = &cp
	}
	return nil
}

// Delete removes a session; unknown ids are ignored
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, including expired ones not pruned yet
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
