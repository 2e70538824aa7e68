package text_test

import (
	"testing"

	"smartvision/internal/utils/text"
)

/* ───────── character counting ───────── */

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Japanese", input: "こんにちは世界", expected: 7},
		{name: "mixed", input: "hello世界", expected: 7},
		{name: "emoji", input: "Hello👋", expected: 6},
		{name: "flag is two regional indicators", input: "🇯🇵", expected: 2},
		{name: "empty", input: "", expected: 0},
		{name: "whitespace", input: " \t\n ", expected: 4},
		{name: "precomposed accent", input: "café", expected: 4},
		{name: "decomposed accent", input: "café", expected: 5},
		{name: "zero-width space", input: "hello​world", expected: 11},
		{name: "sentence", input: "The quick brown fox jumps over the lazy dog.", expected: 44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCountRunes_MatchesRuneConversion(t *testing.T) {
	for _, s := range []string{"", "abc", "日本語テキスト", "mixed 日本 text 🚀", "\xff\xfe"} {
		if got, want := text.CountRunes(s), len([]rune(s)); got != want {
			t.Errorf("CountRunes(%q) = %d, want %d", s, got, want)
		}
	}
}

/* ───────── previews ───────── */

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 5, "hello..."},
		{"cuts on runes", "こんにちは世界", 5, "こんにちは..."},
		{"zero max", "hello", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.Preview(tt.in, tt.max); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
