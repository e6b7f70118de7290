package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Coordinate is a WGS84 latitude/longitude pair. The zero value means the
// place has not been geocoded yet.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the coordinate is the "not geocoded" marker.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Valid reports whether the coordinate is inside the WGS84 range and is not
// the zero marker.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180 && !c.IsZero()
}

// Place is a single location entry extracted from source material.
type Place struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Phone   string     `json:"phone"`
	WebName string     `json:"webName"`
	WebLink string     `json:"webLink"`
	Intro   string     `json:"intro"`
	Tags    []string   `json:"tags"`
	Center  Coordinate `json:"center"`
}

// HasTag reports whether the place carries the given tag.
func (p *Place) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Filter groups tag filters by category. Inclusive filters select places,
// exclusive filters hide them.
type Filter struct {
	Inclusive map[string][]string `json:"inclusive"`
	Exclusive map[string][]string `json:"exclusive"`
}

// NewFilter returns an empty filter with both maps allocated.
func NewFilter() Filter {
	return Filter{
		Inclusive: map[string][]string{},
		Exclusive: map[string][]string{},
	}
}

// MapDocument is the full map-data document: metadata, tag filters and the
// list of places.
type MapDocument struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Origin      string  `json:"origin"`
	Filter      Filter  `json:"filter"`
	Data        []Place `json:"data"`
}

// NewMapDocument returns an empty document with all containers allocated.
func NewMapDocument() MapDocument {
	return MapDocument{
		Filter: NewFilter(),
		Data:   []Place{},
	}
}

// Clone returns a deep copy of the document.
func (d *MapDocument) Clone() MapDocument {
	out := *d
	out.Filter = Filter{
		Inclusive: cloneFilterMap(d.Filter.Inclusive),
		Exclusive: cloneFilterMap(d.Filter.Exclusive),
	}
	out.Data = make([]Place, len(d.Data))
	for i := range d.Data {
		p := d.Data[i]
		p.Tags = append([]string(nil), d.Data[i].Tags...)
		out.Data[i] = p
	}
	return out
}

// IsEmpty reports whether the document holds no places.
func (d *MapDocument) IsEmpty() bool {
	return len(d.Data) == 0
}

// AllTags returns the sorted union of tags found in the filter maps and on
// the places themselves.
func (d *MapDocument) AllTags() []string {
	seen := map[string]struct{}{}
	for _, m := range []map[string][]string{d.Filter.Inclusive, d.Filter.Exclusive} {
		for _, tags := range m {
			for _, t := range tags {
				if t != "" {
					seen[t] = struct{}{}
				}
			}
		}
	}
	for i := range d.Data {
		for _, t := range d.Data[i].Tags {
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func cloneFilterMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Session holds the per-user working state: the raw extracted text plus the
// two live document slots. Saved is the authoritative copy, Editing is the
// working copy. There is no history beyond one step back.
type Session struct {
	ID            uuid.UUID   `json:"id"`
	ExtractedText string      `json:"extracted_text"`
	Saved         MapDocument `json:"saved"`
	Editing       MapDocument `json:"editing"`
	PendingEdits  bool        `json:"pending_edits"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Statistics summarizes field coverage over the places of a document.
type Statistics struct {
	TotalPlaces    int `json:"total_places"`
	HasName        int `json:"has_name"`
	HasAddress     int `json:"has_address"`
	HasCoordinates int `json:"has_coordinates"`
	HasPhone       int `json:"has_phone"`
	HasIntro       int `json:"has_intro"`
	HasTags        int `json:"has_tags"`
	HasWebLink     int `json:"has_weblink"`
}

// Stats computes field coverage for the document.
func (d *MapDocument) Stats() Statistics {
	st := Statistics{TotalPlaces: len(d.Data)}
	for i := range d.Data {
		p := &d.Data[i]
		if p.Name != "" {
			st.HasName++
		}
		if p.Address != "" {
			st.HasAddress++
		}
		if !p.Center.IsZero() {
			st.HasCoordinates++
		}
		if p.Phone != "" {
			st.HasPhone++
		}
		if p.Intro != "" {
			st.HasIntro++
		}
		if len(p.Tags) > 0 {
			st.HasTags++
		}
		if p.WebLink != "" {
			st.HasWebLink++
		}
	}
	return st
}

// GeocodeOutcome records the per-place result of a geocoding batch run.
type GeocodeOutcome struct {
	Index            int     `json:"index"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Success          bool    `json:"success"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// CoordinateStatus describes whether a place is geocoded, pending, or
// cannot be geocoded for lack of an address.
type CoordinateStatus string

const (
	CoordinateStatusDone      CoordinateStatus = "done"
	CoordinateStatusPending   CoordinateStatus = "pending"
	CoordinateStatusNoAddress CoordinateStatus = "no_address"
)

// PlaceCoordinateStatus is one row of the coordinate overview.
type PlaceCoordinateStatus struct {
	Index   int              `json:"index"`
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Status  CoordinateStatus `json:"status"`
}

// CoordinateOverview lists the geocoding state of every place.
func (d *MapDocument) CoordinateOverview() []PlaceCoordinateStatus {
	out := make([]PlaceCoordinateStatus, 0, len(d.Data))
	for i := range d.Data {
		p := &d.Data[i]
		status := CoordinateStatusNoAddress
		switch {
		case !p.Center.IsZero():
			status = CoordinateStatusDone
		case p.Address != "":
			status = CoordinateStatusPending
		}
		out = append(out, PlaceCoordinateStatus{
			Index:   i,
			Name:    p.Name,
			Address: p.Address,
			Status:  status,
		})
	}
	return out
}
