package entity

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameLength bounds document display names.
const maxNameLength = 255

// ValidateDocumentName checks a display name: required, bounded, printable.
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("must not exceed %d characters", maxNameLength),
		}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "name", Message: "must not contain control characters"}
		}
	}
	return nil
}

// ValidateStoredFilename checks a stored file name: a single path element with
// a .pdf extension. Names that could escape the upload directory are rejected.
func ValidateStoredFilename(name string) error {
	if name == "" {
		return &ValidationError{Field: "filename", Message: "is required"}
	}
	// ディレクトリトラバーサル対策
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return &ValidationError{Field: "filename", Message: "must be a plain file name"}
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return &ValidationError{Field: "filename", Message: "must have a .pdf extension"}
	}
	return nil
}
