// Package summarize applies input validation and metrics around the extractive
// summarizer and summarizes stored documents page by page.
package summarize

import (
	"errors"
	"fmt"
)

// ErrTextRequired indicates that no text was supplied.
var ErrTextRequired = errors.New("text is required")

// TooShortError is returned for text below the minimum length. Text is echoed back
// to the caller as the summary.
type TooShortError struct {
	Text   string
	Length int
	Min    int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("text too short to summarize: %d characters, need at least %d", e.Length, e.Min)
}
