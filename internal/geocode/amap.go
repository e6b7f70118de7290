// Package geocode turns postal addresses into coordinates through vendor
// geocoding HTTP APIs, one request at a time.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/port"
)

const amapAPIURL = "https://restapi.amap.com/v3/geocode/geo"

// AmapGeocoder implements port.Geocoder against the Amap geocoding API.
type AmapGeocoder struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewAmapGeocoder creates an Amap-based geocoder.
func NewAmapGeocoder(cfg *config.GeocoderConfig) *AmapGeocoder {
	return NewAmapGeocoderWithEndpoint(cfg, amapAPIURL)
}

// NewAmapGeocoderWithEndpoint creates a geocoder pointing at a custom API
// endpoint (for testing).
func NewAmapGeocoderWithEndpoint(cfg *config.GeocoderConfig, endpoint string) *AmapGeocoder {
	return &AmapGeocoder{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// amapResponse models the Amap geocoding API response. Coordinates arrive
// as a single "lng,lat" string.
type amapResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"`
		FormattedAddress string `json:"formatted_address"`
		Level            string `json:"level"`
	} `json:"geocodes"`
}

func (g *AmapGeocoder) Geocode(ctx context.Context, address string) (*port.GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	params.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amap returned status %d", resp.StatusCode)
	}

	var amResp amapResponse
	if err := json.NewDecoder(resp.Body).Decode(&amResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if amResp.Status != "1" {
		return nil, fmt.Errorf("amap status %s: %s", amResp.Status, amResp.Info)
	}
	if len(amResp.Geocodes) == 0 {
		return nil, fmt.Errorf("no results found for address: %s", address)
	}

	geo := amResp.Geocodes[0]
	lat, lng, err := parseAmapLocation(geo.Location)
	if err != nil {
		return nil, err
	}

	return &port.GeocodeResult{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: geo.FormattedAddress,
		Confidence:       geo.Level,
	}, nil
}

// parseAmapLocation splits the "lng,lat" location string.
func parseAmapLocation(location string) (lat, lng float64, err error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location %q", location)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q", location)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q", location)
	}
	return lat, lng, nil
}
