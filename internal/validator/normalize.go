// Package validator repairs and checks map documents: a field-by-field
// normalization pass that fills defined-but-empty fields with defaults, and
// structural validation for imports and the raw JSON editor.
package validator

import (
	"mapsmith/internal/domain"
	"mapsmith/internal/textutil"
)

// NormalizePlace cleans every field of a place and guarantees all fields are
// present. Running it twice yields the same result as once.
func NormalizePlace(p domain.Place) domain.Place {
	out := domain.Place{
		Name:    textutil.CleanText(p.Name),
		Address: textutil.CleanText(p.Address),
		Phone:   textutil.CleanText(p.Phone),
		WebName: textutil.CleanText(p.WebName),
		WebLink: textutil.CleanURL(p.WebLink),
		Intro:   textutil.CleanText(p.Intro),
		Tags:    textutil.CleanTags(p.Tags),
		Center:  p.Center,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// NormalizeDocument cleans the document metadata, repairs the filter maps
// and normalizes every place. Idempotent.
func NormalizeDocument(doc domain.MapDocument) domain.MapDocument {
	out := domain.NewMapDocument()
	out.Name = textutil.CleanText(doc.Name)
	out.Description = textutil.CleanText(doc.Description)
	out.Origin = textutil.CleanText(doc.Origin)

	if doc.Filter.Inclusive != nil {
		for category, tags := range doc.Filter.Inclusive {
			out.Filter.Inclusive[category] = append([]string(nil), tags...)
		}
	}
	if doc.Filter.Exclusive != nil {
		for category, tags := range doc.Filter.Exclusive {
			out.Filter.Exclusive[category] = append([]string(nil), tags...)
		}
	}

	out.Data = make([]domain.Place, 0, len(doc.Data))
	for _, p := range doc.Data {
		out.Data = append(out.Data, NormalizePlace(p))
	}
	return out
}
