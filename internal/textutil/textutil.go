// Package textutil normalizes free text coming back from OCR and model
// output before it enters a document.
package textutil

import (
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(` +`)
	otherWhitespace = regexp.MustCompile(`[\t\r\f\v]+`)
	leadingSpaces   = regexp.MustCompile(`\n +`)
	trailingSpaces  = regexp.MustCompile(` +\n`)
	manyNewlines    = regexp.MustCompile(`\n{3,}`)
	anyWhitespace   = regexp.MustCompile(`\s+`)

	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-.]*[a-zA-Z0-9]\.[a-zA-Z]{2,}`)
	urlPattern    = regexp.MustCompile(`^https?://[a-zA-Z0-9]([a-zA-Z0-9\-.]*[a-zA-Z0-9])?\.[a-zA-Z]{2,}([/?].*)?$`)
)

// CleanText collapses runs of spaces, strips stray tab/CR characters and
// trims line edges while preserving paragraph structure (at most one blank
// line between paragraphs).
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = otherWhitespace.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = leadingSpaces.ReplaceAllString(s, "\n")
	s = trailingSpaces.ReplaceAllString(s, "\n")
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	return s
}

// CleanURL strips whitespace from a URL and prepends https:// to bare
// domains (including www-prefixed ones). Returns "" for empty input.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = anyWhitespace.ReplaceAllString(raw, "")
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if domainPattern.MatchString(raw) || strings.HasPrefix(raw, "www.") {
		return "https://" + raw
	}
	return raw
}

// ValidateURL checks the URL against a basic scheme+domain pattern.
// An empty URL is valid.
func ValidateURL(raw string) bool {
	if raw == "" {
		return true
	}
	return urlPattern.MatchString(raw)
}

// CleanTags cleans every tag and drops the empty ones.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = CleanText(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
