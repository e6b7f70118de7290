package geocode

import (
	"context"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/port"
)

// ProgressFunc reports batch progress before each lookup.
type ProgressFunc func(index, total int, address string)

// BatchRunner geocodes the places of a document that lack coordinates,
// strictly one request at a time with a fixed pause between calls to stay
// under the provider rate limits. Individual failures are recorded and do
// not abort the batch.
type BatchRunner struct {
	geocoder port.Geocoder
	interval time.Duration
	prefix   string
	clean    bool
}

// NewBatchRunner creates a BatchRunner from the geocoder config.
func NewBatchRunner(geocoder port.Geocoder, cfg *config.GeocoderConfig) *BatchRunner {
	return &BatchRunner{
		geocoder: geocoder,
		interval: cfg.RequestInterval,
		prefix:   cfg.AddressPrefix,
		clean:    cfg.CleanAddress,
	}
}

// Run geocodes every place in doc that has an address but no coordinates,
// updating doc in place. It returns one outcome per attempted place.
func (r *BatchRunner) Run(ctx context.Context, doc *domain.MapDocument, onProgress ProgressFunc) []domain.GeocodeOutcome {
	var pending []int
	for i := range doc.Data {
		p := &doc.Data[i]
		if p.Center.IsZero() && p.Address != "" {
			pending = append(pending, i)
		}
	}

	outcomes := make([]domain.GeocodeOutcome, 0, len(pending))
	for n, idx := range pending {
		p := &doc.Data[idx]
		address := PrepareAddress(p.Address, r.prefix, r.clean)

		if onProgress != nil {
			onProgress(n, len(pending), address)
		}

		outcome := domain.GeocodeOutcome{
			Index:   idx,
			Name:    p.Name,
			Address: address,
		}

		result, err := r.geocoder.Geocode(ctx, address)
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Success = true
			outcome.Lat = result.Lat
			outcome.Lng = result.Lng
			outcome.FormattedAddress = result.FormattedAddress
			p.Center = domain.Coordinate{Lat: result.Lat, Lng: result.Lng}
		}
		outcomes = append(outcomes, outcome)

		// Pause between requests; the last one needs no wait.
		if n < len(pending)-1 && r.interval > 0 {
			select {
			case <-ctx.Done():
				return outcomes
			case <-time.After(r.interval):
			}
		}
	}

	return outcomes
}
