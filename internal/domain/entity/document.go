package entity

import (
	"path"
	"time"
)

// UploadsURLPrefix is the public URL prefix under which stored files are served.
const UploadsURLPrefix = "/uploads/"

// Document is an uploaded PDF and its metadata.
type Document struct {
	ID int64
	// Name is the display name users search by.
	Name string
	// Filename is the unique name of the stored file inside the upload directory.
	Filename string
	// Path is the public URL path of the stored file.
	Path       string
	Size       int64
	PageCount  int
	UploadedAt time.Time
	// UserID is reserved for per-user libraries and is nil for now.
	UserID *string
}

// PublicPath returns the URL path a stored file is served under.
func PublicPath(filename string) string {
	return path.Join(UploadsURLPrefix, filename)
}

// Validate checks the fields required before a document is persisted.
func (d *Document) Validate() error {
	if err := ValidateDocumentName(d.Name); err != nil {
		return err
	}
	if err := ValidateStoredFilename(d.Filename); err != nil {
		return err
	}
	if d.Size < 0 {
		return &ValidationError{Field: "size", Message: "must not be negative"}
	}
	if d.PageCount < 0 {
		return &ValidationError{Field: "pageCount", Message: "must not be negative"}
	}
	return nil
}

// HasPage reports whether page (1-based) exists. Documents with an unknown page
// count accept any positive page.
func (d *Document) HasPage(page int) bool {
	if page < 1 {
		return false
	}
	return d.PageCount == 0 || page <= d.PageCount
}
