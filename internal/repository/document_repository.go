package repository

import (
	"context"
	"strings"

	"smartvision/internal/domain/entity"
)

// DocumentRepository persists uploaded PDF metadata.
//
// Get and FindByName return (nil, nil) when no document matches.
type DocumentRepository interface {
	Get(ctx context.Context, id int64) (*entity.Document, error)
	// List returns every document, newest upload first.
	List(ctx context.Context) ([]*entity.Document, error)
	// FindByName returns the first document (lowest id) whose name contains
	// name, compared case-insensitively. name is a literal, not a pattern.
	FindByName(ctx context.Context, name string) (*entity.Document, error)
	// Create inserts doc and sets doc.ID.
	Create(ctx context.Context, doc *entity.Document) error
	// Delete removes the row; a missing row yields an error wrapping entity.ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// ExistingFilenames reports which of the given stored file names have a row.
	ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error)
}

// likeEscaper escapes the LIKE wildcards and the escape character itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a literal search term into a LIKE pattern matching any
// value containing it. Use with ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
