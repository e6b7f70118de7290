package geocode

import (
	"regexp"
	"strings"
)

// houseNumber matches an address up to and including the first house-number
// marker ("号"). Everything after it (floors, room numbers, annotations)
// tends to confuse the geocoders.
var houseNumber = regexp.MustCompile(`^.*?号`)

// CleanAddress truncates an address at the first house-number marker.
// Addresses without one are returned trimmed.
func CleanAddress(address string) string {
	if m := houseNumber.FindString(address); m != "" {
		return m
	}
	return strings.TrimSpace(address)
}

// PrepareAddress applies the optional cleanup and prefix from the geocoder
// config to a raw address.
func PrepareAddress(address, prefix string, clean bool) string {
	if clean {
		address = CleanAddress(address)
	}
	if prefix != "" && !strings.HasPrefix(address, prefix) {
		address = prefix + address
	}
	return address
}
