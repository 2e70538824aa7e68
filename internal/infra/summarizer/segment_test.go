package summarizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "mixed terminals",
			text: "Hello world. How are you? Fine!",
			want: []string{"Hello world.", " How are you?", " Fine!"},
		},
		{
			name: "repeated terminals stay with their sentence",
			text: "Wait... what?! Really.",
			want: []string{"Wait...", " what?!", " Really."},
		},
		{
			name: "abbreviations are split",
			text: "Mr. Smith arrived.",
			want: []string{"Mr.", " Smith arrived."},
		},
		{
			name: "decimals are split",
			text: "Pi is 3.14 today.",
			want: []string{"Pi is 3.", "14 today."},
		},
		{
			name: "trailing fragment dropped",
			text: "Done. trailing words",
			want: []string{"Done."},
		},
		{
			name: "newlines belong to sentences",
			text: "Line one\ncontinues. Line two.",
			want: []string{"Line one\ncontinues.", " Line two."},
		},
		{
			name: "no terminal punctuation",
			text: "no terminal here",
			want: nil,
		},
		{
			name: "only punctuation",
			text: "...!?",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segment() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  padded  ", "padded"},
		{"a \t b\n\nc", "a b c"},
		{"already normal.", "already normal."},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize is not idempotent for %q: %q -> %q", tt.in, got, again)
		}
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("one  two\tthree"); got != 3 {
		t.Errorf("CountWords = %d, want 3", got)
	}
	if got := CountWords("."); got != 1 {
		t.Errorf("CountWords(\".\") = %d, want 1", got)
	}
}
