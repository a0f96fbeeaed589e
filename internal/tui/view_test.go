package tui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"Short Unchanged", "hello", 10, "hello"},
		{"At Limit Unchanged", "hello", 5, "hello"},
		{"Long Cut With Ellipsis", "hello world", 8, "hello..."},
		{"Multibyte At Limit", strings.Repeat("é", 5), 5, strings.Repeat("é", 5)},
		{"Multibyte Cut On Rune Boundary", strings.Repeat("é", 10), 8, strings.Repeat("é", 5) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
			}
		})
	}
}
