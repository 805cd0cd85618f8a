package simd

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemmem(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     int
	}{
		{"empty needle", "abc", "", 0},
		{"empty haystack", "", "a", -1},
		{"needle too long", "ab", "abc", -1},
		{"single byte", "hello world", "w", 6},
		{"word", "hello world", "world", 6},
		{"repeated prefix", "aaaaaabaaaa", "aab", 4},
		{"at start", "foobar", "foo", 0},
		{"at end", "foobar", "bar", 3},
		{"miss", "hello world", "xyz", -1},
		{"rare byte near edge", "zq" + strings.Repeat(".", 20) + "qz", "qz", 22},
		{"rare byte before room", "qabc", "xq", -1},
		{"long needle", strings.Repeat("ab", 30) + "needle-" + strings.Repeat("x", 40), "needle-" + strings.Repeat("x", 40), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memmem([]byte(tt.haystack), []byte(tt.needle))
			if got != tt.want {
				t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
			if std := bytes.Index([]byte(tt.haystack), []byte(tt.needle)); got != std {
				t.Errorf("Memmem disagrees with bytes.Index: %d vs %d", got, std)
			}
		})
	}
}

func TestMemmemFold(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     int
	}{
		{"lower", "say hello", "HELLO", 4},
		{"mixed", "say HeLLo", "HELLO", 4},
		{"punctuation", "a-B-c", "B-C", 2},
		{"miss", "say help", "HELLO", -1},
		{"exact high bytes", "caf\xc3\xa9", "CAF\xc3\xa9", 0},
		{"empty", "x", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemmemFold([]byte(tt.haystack), []byte(tt.needle)); got != tt.want {
				t.Errorf("MemmemFold(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}
