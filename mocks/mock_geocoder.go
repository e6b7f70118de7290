package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mapsmith/internal/port"
)

// MockGeocoder is a mock implementation of port.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*port.GeocodeResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.GeocodeResult), args.Error(1)
}
