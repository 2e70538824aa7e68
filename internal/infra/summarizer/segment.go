package summarizer

import (
	"regexp"
	"strings"
)

// sentencePattern matches a run of non-terminal characters followed by one or
// more terminal marks. Abbreviations ("Mr.") and decimals ("3.14") are split
// like any other period.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Segment splits text into raw sentences, scanning left to right without overlap.
// Text with no terminal punctuation yields no sentences; a trailing fragment
// without punctuation is dropped.
func Segment(text string) []string {
	return sentencePattern.FindAllString(text, -1)
}

// Normalize trims s and collapses every whitespace run to a single space.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
