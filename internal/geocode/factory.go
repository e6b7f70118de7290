package geocode

import (
	"fmt"

	"mapsmith/internal/config"
	"mapsmith/internal/port"
)

// NewGeocoder creates the geocoder named by the config provider field.
func NewGeocoder(cfg *config.GeocoderConfig) (port.Geocoder, error) {
	switch cfg.Provider {
	case "amap":
		return NewAmapGeocoder(cfg), nil
	case "tencent":
		return NewTencentGeocoder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider: %s", cfg.Provider)
	}
}
