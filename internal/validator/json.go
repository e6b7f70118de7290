package validator

import (
	"encoding/json"
	"fmt"

	"mapsmith/internal/domain"
)

// CheckSyntax reports whether raw is well-formed JSON, with the decoder's
// error message when it is not.
func CheckSyntax(raw []byte) (bool, string) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// ParseDocument parses raw JSON into a MapDocument and checks the expected
// structure: top-level fields, filter shape, and per-place field types.
// The returned document is not yet normalized.
func ParseDocument(raw []byte) (*domain.MapDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	for _, field := range []string{"name", "description", "origin", "filter", "data"} {
		if _, ok := top[field]; !ok {
			return nil, fmt.Errorf("%w: missing required field %q", domain.ErrInvalidDocument, field)
		}
	}

	var filter struct {
		Inclusive map[string][]string `json:"inclusive"`
		Exclusive map[string][]string `json:"exclusive"`
	}
	if err := json.Unmarshal(top["filter"], &filter); err != nil {
		return nil, fmt.Errorf("%w: filter must hold inclusive/exclusive tag maps", domain.ErrInvalidDocument)
	}

	doc := domain.NewMapDocument()
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	for i := range doc.Data {
		if doc.Data[i].Name == "" {
			return nil, fmt.Errorf("%w: place %d is missing the required name field", domain.ErrInvalidDocument, i+1)
		}
	}

	return &doc, nil
}
