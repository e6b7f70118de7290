package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/port"
)

const tencentAPIURL = "https://apis.map.qq.com/ws/geocoder/v1/"

// TencentGeocoder implements port.Geocoder against the Tencent Maps
// geocoding API.
type TencentGeocoder struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewTencentGeocoder creates a Tencent Maps-based geocoder.
func NewTencentGeocoder(cfg *config.GeocoderConfig) *TencentGeocoder {
	return NewTencentGeocoderWithEndpoint(cfg, tencentAPIURL)
}

// NewTencentGeocoderWithEndpoint creates a geocoder pointing at a custom API
// endpoint (for testing).
func NewTencentGeocoderWithEndpoint(cfg *config.GeocoderConfig, endpoint string) *TencentGeocoder {
	return &TencentGeocoder{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// tencentResponse models the Tencent geocoder response. Status 0 means OK.
type tencentResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Result  struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
		Reliability        int `json:"reliability"`
		FormattedAddresses struct {
			Recommend string `json:"recommend"`
		} `json:"formatted_addresses"`
	} `json:"result"`
}

func (g *TencentGeocoder) Geocode(ctx context.Context, address string) (*port.GeocodeResult, error) {
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
		return nil, fmt.Errorf("tencent maps returned status %d", resp.StatusCode)
	}

	var tResp tencentResponse
	if err := json.NewDecoder(resp.Body).Decode(&tResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if tResp.Status != 0 {
		return nil, fmt.Errorf("tencent maps status %d: %s", tResp.Status, tResp.Message)
	}

	return &port.GeocodeResult{
		Lat:              tResp.Result.Location.Lat,
		Lng:              tResp.Result.Location.Lng,
		FormattedAddress: tResp.Result.FormattedAddresses.Recommend,
		Confidence:       strconv.Itoa(tResp.Result.Reliability),
	}, nil
}
