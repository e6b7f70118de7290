package validator

import (
	"fmt"

	"mapsmith/internal/domain"
	"mapsmith/internal/textutil"
)

// Issue is one validation finding, tied to a place by index (-1 for
// document-level findings).
type Issue struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatePlace checks a single place and returns its issues.
func ValidatePlace(index int, p *domain.Place) []Issue {
	var issues []Issue

	if p.Name == "" {
		issues = append(issues, Issue{Index: index, Field: "name", Message: "name must not be empty"})
	}
	if p.WebLink != "" && !textutil.ValidateURL(p.WebLink) {
		issues = append(issues, Issue{Index: index, Field: "webLink",
			Message: fmt.Sprintf("invalid URL: %s", p.WebLink)})
	}
	if !p.Center.IsZero() {
		if p.Center.Lat < -90 || p.Center.Lat > 90 {
			issues = append(issues, Issue{Index: index, Field: "center.lat",
				Message: "latitude must be between -90 and 90"})
		}
		if p.Center.Lng < -180 || p.Center.Lng > 180 {
			issues = append(issues, Issue{Index: index, Field: "center.lng",
				Message: "longitude must be between -180 and 180"})
		}
	}
	return issues
}

// ValidateDocument runs the per-place checks over the whole document.
func ValidateDocument(doc *domain.MapDocument) []Issue {
	var issues []Issue
	for i := range doc.Data {
		issues = append(issues, ValidatePlace(i, &doc.Data[i])...)
	}
	return issues
}
