// Package service implements the application use cases on top of the session
// store and the LLM, geocoder and storage ports.
package service

import (
	"log"

	"github.com/google/uuid"

	"mapsmith/internal/domain"
	"mapsmith/internal/session"
)

// SessionService defines the session lifecycle contract.
type SessionService interface {
	Create() domain.Session
	Get(id uuid.UUID) (domain.Session, error)
	Delete(id uuid.UUID)
	Reset(id uuid.UUID) (domain.Session, error)
}

type sessionService struct {
	store *session.Store
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(store *session.Store) SessionService {
	return &sessionService{store: store}
}

func (s *sessionService) Create() domain.Session {
	sess := s.store.Create()
	log.Printf("sessionService.Create: session %s", sess.ID)
	return sess
}

func (s *sessionService) Get(id uuid.UUID) (domain.Session, error) {
	return s.store.Get(id)
}

func (s *sessionService) Delete(id uuid.UUID) {
	s.store.Delete(id)
	log.Printf("sessionService.Delete: session %s", id)
}

// Reset clears every slot but keeps the session alive.
func (s *sessionService) Reset(id uuid.UUID) (domain.Session, error) {
	return s.store.Update(id, func(sess *domain.Session) error {
		session.ResetAll(sess)
		return nil
	})
}
