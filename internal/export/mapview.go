package export

import (
	"sort"

	"mapsmith/internal/domain"
	"mapsmith/internal/geocode"
)

// defaultCenter is used when no place carries valid coordinates (Shanghai).
var defaultCenter = domain.Coordinate{Lat: 31.230416, Lng: 121.473701}

const (
	defaultZoom     = 15
	singlePointZoom = 16
	minZoomFloor    = 10
	zoomPadding     = 1.5
)

// zoomDistances maps a zoom level to the largest point-spread (meters) it
// comfortably displays. Levels outside 3..20 are not used.
var zoomDistances = map[int]float64{
	3:  1000000,
	4:  500000,
	5:  200000,
	6:  100000,
	7:  50000,
	8:  25000,
	9:  20000,
	10: 10000,
	11: 5000,
	12: 2000,
	13: 1000,
	14: 500,
	15: 200,
	16: 100,
	17: 50,
	18: 20,
	19: 10,
	20: 5,
}

// ZoomRange is the [initial, min, max] zoom triple for a map view.
type ZoomRange struct {
	Initial int `json:"initial"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// MapView is the render configuration derived from a document's coordinates.
type MapView struct {
	Name   string            `json:"name"`
	Center domain.Coordinate `json:"center"`
	Zoom   ZoomRange         `json:"zoom"`
	Origin string            `json:"origin"`
	Filter domain.Filter     `json:"filter"`
}

// validPoints collects the coordinates of geocoded places.
func validPoints(doc *domain.MapDocument) []domain.Coordinate {
	pts := make([]domain.Coordinate, 0, len(doc.Data))
	for i := range doc.Data {
		if doc.Data[i].Center.Valid() {
			pts = append(pts, doc.Data[i].Center)
		}
	}
	return pts
}

// computeCenter averages the valid coordinates, falling back to the default
// center for an empty set.
func computeCenter(pts []domain.Coordinate) domain.Coordinate {
	if len(pts) == 0 {
		return defaultCenter
	}
	var lat, lng float64
	for _, p := range pts {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(pts))
	return domain.Coordinate{Lat: lat / n, Lng: lng / n}
}

// computeZoom picks a base zoom level from the bounding-box diagonal of the
// valid points, padded so markers do not sit on the map edge.
func computeZoom(pts []domain.Coordinate) int {
	if len(pts) <= 1 {
		if len(pts) == 1 {
			return singlePointZoom
		}
		return defaultZoom
	}

	minPt := pts[0]
	maxPt := pts[0]
	for _, p := range pts[1:] {
		if p.Lat < minPt.Lat {
			minPt.Lat = p.Lat
		}
		if p.Lng < minPt.Lng {
			minPt.Lng = p.Lng
		}
		if p.Lat > maxPt.Lat {
			maxPt.Lat = p.Lat
		}
		if p.Lng > maxPt.Lng {
			maxPt.Lng = p.Lng
		}
	}

	required := geocode.Distance(minPt, maxPt) * 1000 * zoomPadding

	levels := make([]int, 0, len(zoomDistances))
	for z := range zoomDistances {
		levels = append(levels, z)
	}
	sort.Ints(levels)

	for _, z := range levels {
		if zoomDistances[z] >= required {
			continue
		}
		// First level whose reach falls below the spread: step back one.
		if z > 3 {
			z--
		}
		if z < minZoomFloor {
			z = minZoomFloor
		}
		return z
	}
	// Spread smaller than the tightest level's reach.
	return levels[len(levels)-1]
}

func clampZoom(z int) int {
	if z < 3 {
		return 3
	}
	if z > 20 {
		return 20
	}
	return z
}

// BuildMapView derives the center and zoom configuration for rendering the
// document on a map.
func BuildMapView(doc *domain.MapDocument) MapView {
	pts := validPoints(doc)
	base := computeZoom(pts)

	zoom := ZoomRange{
		Initial: clampZoom(base),
		Min:     clampZoom(base - 1),
		Max:     clampZoom(base + 5),
	}
	if zoom.Min > zoom.Initial {
		zoom.Min = zoom.Initial
	}
	if zoom.Max < zoom.Initial {
		zoom.Max = zoom.Initial
	}

	return MapView{
		Name:   doc.Name,
		Center: computeCenter(pts),
		Zoom:   zoom,
		Origin: doc.Origin,
		Filter: doc.Filter,
	}
}
