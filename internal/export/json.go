// Package export serializes map documents for download: JSON, CSV and XLSX,
// plus the derived map view configuration (center and zoom).
package export

import (
	"encoding/json"

	"mapsmith/internal/domain"
)

// Options control JSON export shaping.
type Options struct {
	// RemoveEmpty drops empty string fields, empty tag lists and the zero
	// center from each place.
	RemoveEmpty bool
	// RemoveZeroCoords drops places that were never geocoded.
	RemoveZeroCoords bool
}

// JSON renders the full document. With no options set the output
// re-imports to an equivalent document.
func JSON(doc *domain.MapDocument, opts Options) ([]byte, error) {
	out := map[string]interface{}{
		"name":        doc.Name,
		"description": doc.Description,
		"origin":      doc.Origin,
		"filter":      doc.Filter,
		"data":        shapePlaces(doc, opts),
	}
	return json.MarshalIndent(out, "", "  ")
}

// DataOnlyJSON renders just the places array.
func DataOnlyJSON(doc *domain.MapDocument, opts Options) ([]byte, error) {
	return json.MarshalIndent(shapePlaces(doc, opts), "", "  ")
}

func shapePlaces(doc *domain.MapDocument, opts Options) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(doc.Data))
	for i := range doc.Data {
		p := &doc.Data[i]
		if opts.RemoveZeroCoords && p.Center.IsZero() {
			continue
		}
		out = append(out, shapePlace(p, opts))
	}
	return out
}

func shapePlace(p *domain.Place, opts Options) map[string]interface{} {
	item := map[string]interface{}{}

	fields := map[string]string{
		"name":    p.Name,
		"address": p.Address,
		"phone":   p.Phone,
		"webName": p.WebName,
		"webLink": p.WebLink,
		"intro":   p.Intro,
	}
	for key, val := range fields {
		if opts.RemoveEmpty && val == "" {
			continue
		}
		item[key] = val
	}

	if !opts.RemoveEmpty || len(p.Tags) > 0 {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		item["tags"] = tags
	}

	if !opts.RemoveEmpty || !p.Center.IsZero() {
		item["center"] = p.Center
	}

	return item
}
