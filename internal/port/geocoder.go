package port

import "context"

// GeocodeResult is a successful address lookup.
type GeocodeResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Confidence       string
}

// Geocoder abstracts a forward-geocoding HTTP API.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}
