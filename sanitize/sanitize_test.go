package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims edges", "  reader01  ", "reader01"},
		{"collapses internal whitespace", "han  \t solo", "han solo"},
		{"drops control characters", "abc\x00\x01def", "abcdef"},
		{"drops newlines between words", "line1\nline2", "line1 line2"},
		{"empty stays empty", "", ""},
		{"whitespace only collapses to empty", " \t\n ", ""},
		{"keeps unicode letters", "독자일번", "독자일번"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_NormalizesCompatibilityForms(t *testing.T) {
	// Full-width latin should fold to ASCII under NFKC.
	assert.Equal(t, "abc", Sanitize("ａｂｃ"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   bool
	}{
		{"simple username", "reader01", 64, true},
		{"empty rejected", "", 64, false},
		{"over max length rejected", strings.Repeat("a", 65), 64, false},
		{"exactly max length accepted", strings.Repeat("a", 64), 64, true},
		{"angle brackets rejected", "<script>", 64, false},
		{"nul byte rejected", "ab\x00cd", 64, false},
		{"control char rejected", "ab\x1bcd", 64, false},
		{"invalid utf8 rejected", string([]byte{0xff, 0xfe}), 64, false},
		{"unicode accepted", "독자", 64, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in, tt.maxLen))
		})
	}
}
