// Package text provides small helpers for measuring and trimming user text.
package text

import "unicode/utf8"

// CountRunes counts Unicode characters rather than bytes, so "café" is 4 and
// "こんにちは" is 5. Summary lengths and compression rates are computed with it.
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Preview returns at most max runes of s, appending "..." when it was cut.
// It is used to keep request text out of logs at full length.
func Preview(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if CountRunes(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}
