package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t \n ", ""},
		{"collapses spaces", "a    b", "a b"},
		{"strips tabs and CR", "a\tb\rc", "a b c"},
		{"tab between spaces collapses in one pass", "a \t b", "a b"},
		{"trims line edges", "  line one  \n   line two  ", "line one\nline two"},
		{"caps blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"keeps single blank line", "para one\n\npara two", "para one\n\npara two"},
		{"chinese text untouched", "上海市徐汇区衡山路9号", "上海市徐汇区衡山路9号"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	in := "  a   b \t c \n\n\n\n d  "
	once := CleanText(in)
	assert.Equal(t, once, CleanText(once))
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already https", "https://example.com/a", "https://example.com/a"},
		{"already http", "http://example.com", "http://example.com"},
		{"bare domain", "example.com", "https://example.com"},
		{"www prefix", "www.example.com/path", "https://www.example.com/path"},
		{"inner whitespace stripped", " exa mple.com ", "https://example.com"},
		{"non-domain untouched", "just text", "justtext"},
		{"single-letter host untouched", "a.com", "a.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanURL(tt.in))
		})
	}
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL(""))
	assert.True(t, ValidateURL("https://example.com"))
	assert.True(t, ValidateURL("http://sub.example.co/path?q=1"))
	assert.False(t, ValidateURL("example.com"))
	assert.False(t, ValidateURL("ftp://example.com"))
	assert.False(t, ValidateURL("https://nodot"))
}

func TestCleanTags(t *testing.T) {
	got := CleanTags([]string{" 咖啡 ", "", "  ", "brunch", "咖啡\t"})
	assert.Equal(t, []string{"咖啡", "brunch", "咖啡"}, got)
}
