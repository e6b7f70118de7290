// Package session holds per-user working state in memory: the extracted
// text and the saved/editing document slots. Nothing is persisted; sessions
// are evicted after a configurable idle TTL.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
)

// Store is an in-memory session store keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.Session
	ttl      time.Duration
	interval time.Duration
}

// NewStore creates a Store from the session config.
func NewStore(cfg *config.SessionConfig) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 2 * time.Hour
	}
	interval := cfg.CleanupInterval
	if interval == 0 {
		interval = 10 * time.Minute
	}
	return &Store{
		sessions: map[uuid.UUID]*domain.Session{},
		ttl:      ttl,
		interval: interval,
	}
}

// Create allocates a fresh session with empty slots.
func (s *Store) Create() domain.Session {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.New(),
		Saved:     domain.NewMapDocument(),
		Editing:   domain.NewMapDocument(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshot(sess)
}

// Get returns a deep copy of the session, so readers never observe
// concurrent mutation.
func (s *Store) Get(id uuid.UUID) (domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// Update runs fn against the live session under the store lock and bumps
// the session's UpdatedAt on success.
func (s *Store) Update(id uuid.UUID, fn func(*domain.Session) error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return domain.Session{}, err
	}
	sess.UpdatedAt = time.Now().UTC()
	return snapshot(sess), nil
}

// Delete removes a session.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor launches the eviction loop. It stops when ctx is canceled.
func (s *Store) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evicted := s.evictExpired(time.Now().UTC())
				if evicted > 0 {
					log.Printf("session.Store: evicted %d idle sessions", evicted)
				}
			}
		}
	}()
}

func (s *Store) evictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func snapshot(sess *domain.Session) domain.Session {
	out := *sess
	out.Saved = sess.Saved.Clone()
	out.Editing = sess.Editing.Clone()
	return out
}
