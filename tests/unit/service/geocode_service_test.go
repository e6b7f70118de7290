package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/geocode"
	"mapsmith/internal/port"
	"mapsmith/internal/service"
	"mapsmith/internal/session"
	"mapsmith/mocks"
)

func TestGeocodeService_RunBatch(t *testing.T) {
	store := newStore()
	mockGeocoder := new(mocks.MockGeocoder)
	runner := geocode.NewBatchRunner(mockGeocoder, &config.GeocoderConfig{})
	svc := service.NewGeocodeService(store, runner)

	sess := store.Create()
	doc := domain.NewMapDocument()
	doc.Data = []domain.Place{
		{Name: "A", Address: "某路1号"},
		{Name: "done", Address: "某路2号", Center: domain.Coordinate{Lat: 1, Lng: 2}},
		{Name: "B", Address: "坏地址"},
	}
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		session.SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)

	mockGeocoder.On("Geocode", mock.Anything, "某路1号").
		Return(&port.GeocodeResult{Lat: 31.2, Lng: 121.4}, nil)
	mockGeocoder.On("Geocode", mock.Anything, "坏地址").
		Return(nil, fmt.Errorf("no results found"))

	result, err := svc.RunBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Lat: 31.2, Lng: 121.4}, got.Saved.Data[0].Center)
	assert.Equal(t, domain.Coordinate{Lat: 1, Lng: 2}, got.Saved.Data[1].Center)
	assert.True(t, got.Saved.Data[2].Center.IsZero())
	mockGeocoder.AssertExpectations(t)
}

func TestGeocodeService_RunBatch_NotConfigured(t *testing.T) {
	store := newStore()
	svc := service.NewGeocodeService(store, nil)

	sess := store.Create()
	_, err := svc.RunBatch(context.Background(), sess.ID)
	assert.ErrorIs(t, err, domain.ErrGeocoderNotConfigured)
}

func TestGeocodeService_RunBatch_EmptyDocument(t *testing.T) {
	store := newStore()
	runner := geocode.NewBatchRunner(new(mocks.MockGeocoder), &config.GeocoderConfig{})
	svc := service.NewGeocodeService(store, runner)

	sess := store.Create()
	_, err := svc.RunBatch(context.Background(), sess.ID)
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestGeocodeService_UpdateCoordinates(t *testing.T) {
	store := newStore()
	svc := service.NewGeocodeService(store, nil)

	sess := store.Create()
	doc := domain.NewMapDocument()
	doc.Data = []domain.Place{{Name: "A"}}
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		session.SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCoordinates(sess.ID, 0, service.CoordinateUpdateInput{Lat: 31.2, Lng: 121.4})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Lat: 31.2, Lng: 121.4}, updated.Data[0].Center)

	_, err = svc.UpdateCoordinates(sess.ID, 7, service.CoordinateUpdateInput{Lat: 1, Lng: 2})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestGeocodeService_Overview(t *testing.T) {
	store := newStore()
	svc := service.NewGeocodeService(store, nil)

	sess := store.Create()
	doc := domain.NewMapDocument()
	doc.Data = []domain.Place{
		{Name: "done", Address: "a", Center: domain.Coordinate{Lat: 1, Lng: 2}},
		{Name: "pending", Address: "b"},
		{Name: "no address"},
	}
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		session.SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)

	overview, err := svc.Overview(sess.ID)
	require.NoError(t, err)
	require.Len(t, overview, 3)
	assert.Equal(t, domain.CoordinateStatusDone, overview[0].Status)
	assert.Equal(t, domain.CoordinateStatusPending, overview[1].Status)
	assert.Equal(t, domain.CoordinateStatusNoAddress, overview[2].Status)
}
