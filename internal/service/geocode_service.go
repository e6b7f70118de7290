package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"mapsmith/internal/domain"
	"mapsmith/internal/geocode"
	"mapsmith/internal/session"
)

// BatchGeocodeResult summarizes a batch run over the saved document.
type BatchGeocodeResult struct {
	Attempted int                     `json:"attempted"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
	Outcomes  []domain.GeocodeOutcome `json:"outcomes"`
}

// CoordinateUpdateInput is the DTO for a manual coordinate fix.
type CoordinateUpdateInput struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// GeocodeService resolves place addresses to coordinates on the saved
// document.
type GeocodeService interface {
	RunBatch(ctx context.Context, sessionID uuid.UUID) (BatchGeocodeResult, error)
	UpdateCoordinates(sessionID uuid.UUID, index int, input CoordinateUpdateInput) (domain.MapDocument, error)
	Overview(sessionID uuid.UUID) ([]domain.PlaceCoordinateStatus, error)
}

type geocodeService struct {
	store  *session.Store
	runner *geocode.BatchRunner
}

// NewGeocodeService creates a new GeocodeService implementation.
func NewGeocodeService(store *session.Store, runner *geocode.BatchRunner) GeocodeService {
	return &geocodeService{store: store, runner: runner}
}

// RunBatch geocodes the pending places of the saved document. The batch runs
// outside the store lock against a snapshot; results are merged back by
// index afterwards, so a long batch does not block other session operations.
func (s *geocodeService) RunBatch(ctx context.Context, sessionID uuid.UUID) (BatchGeocodeResult, error) {
	if s.runner == nil {
		return BatchGeocodeResult{}, domain.ErrGeocoderNotConfigured
	}

	sess, err := s.store.Get(sessionID)
	if err != nil {
		return BatchGeocodeResult{}, err
	}
	if sess.Saved.IsEmpty() {
		return BatchGeocodeResult{}, domain.ErrNoDocument
	}

	doc := sess.Saved.Clone()
	outcomes := s.runner.Run(ctx, &doc, func(index, total int, address string) {
		log.Printf("geocodeService.RunBatch: session %s, %d/%d %s", sessionID, index+1, total, address)
	})

	result := BatchGeocodeResult{Attempted: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	_, err = s.store.Update(sessionID, func(sess *domain.Session) error {
		for _, o := range outcomes {
			if !o.Success || o.Index >= len(sess.Saved.Data) {
				continue
			}
			// Skip places edited to a fixed position while the batch ran.
			if !sess.Saved.Data[o.Index].Center.IsZero() {
				continue
			}
			sess.Saved.Data[o.Index].Center = domain.Coordinate{Lat: o.Lat, Lng: o.Lng}
		}
		return nil
	})
	if err != nil {
		return BatchGeocodeResult{}, err
	}

	log.Printf("geocodeService.RunBatch: session %s, %d attempted, %d ok, %d failed",
		sessionID, result.Attempted, result.Succeeded, result.Failed)
	return result, nil
}

func (s *geocodeService) UpdateCoordinates(sessionID uuid.UUID, index int, input CoordinateUpdateInput) (domain.MapDocument, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		return session.UpdateCoordinates(&sess.Saved, index, input.Lat, input.Lng)
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Saved, nil
}

func (s *geocodeService) Overview(sessionID uuid.UUID) ([]domain.PlaceCoordinateStatus, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Saved.CoordinateOverview(), nil
}
