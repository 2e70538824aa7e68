package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrInvalidID is returned when the ID in the URL path is invalid.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidPage is returned when a page number is not a positive integer.
	ErrInvalidPage = errors.New("invalid page number")
)

// ParseID parses a positive int64 path segment such as r.PathValue("id").
//
// Example:
//
//	id, err := ParseID(r.PathValue("id"))
//	// "/api/pdf/delete/123" -> 123, nil
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParsePage parses a 1-based page number.
func ParsePage(raw string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 0, ErrInvalidPage
	}
	return page, nil
}
