// Package pdftext reads page counts and plain page text from PDF files.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"smartvision/internal/domain/entity"
)

// Magic is the prefix every PDF file starts with.
const Magic = "%PDF-"

// HasMagic reports whether header starts with the PDF signature.
func HasMagic(header []byte) bool {
	return bytes.HasPrefix(header, []byte(Magic))
}

// Document is an opened PDF.
type Document struct {
	r      *pdf.Reader
	closer io.Closer
}

// Parse reads a PDF from r. The returned Document does not own r.
func Parse(r io.ReaderAt, size int64) (doc *Document, err error) {
	head := make([]byte, len(Magic))
	if _, rerr := r.ReadAt(head, 0); rerr != nil || !HasMagic(head) {
		return nil, entity.ErrInvalidPDF
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("%w: %v", entity.ErrInvalidPDF, p)
		}
	}()

	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidPDF, err)
	}
	return &Document{r: pr}, nil
}

// Open opens the PDF at path. Close releases the file.
func Open(path string) (*Document, error) {
	// #nosec G304 -- callers pass paths resolved by storage.Local
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	doc, err := Parse(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	doc.closer = f
	return doc, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// NumPages returns the page count.
func (d *Document) NumPages() (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("%w: %v", entity.ErrInvalidPDF, p)
		}
	}()
	return d.r.NumPage(), nil
}

// PageText returns the plain text of page (1-based) with surrounding space trimmed.
// Pages without a text layer yield "".
func (d *Document) PageText(page int) (text string, err error) {
	n, err := d.NumPages()
	if err != nil {
		return "", err
	}
	if page < 1 || page > n {
		return "", fmt.Errorf("%w: page %d of %d", entity.ErrPageOutOfRange, page, n)
	}

	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: page %d: %v", entity.ErrInvalidPDF, page, p)
		}
	}()

	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	raw, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %w", entity.ErrInvalidPDF, page, err)
	}
	return strings.TrimSpace(raw), nil
}

// Extractor opens files by path. It is stateless and safe for concurrent use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor { return &Extractor{} }

// PageCount returns the number of pages of the PDF at path.
func (Extractor) PageCount(path string) (int, error) {
	doc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = doc.Close() }()
	return doc.NumPages()
}

// PageText returns the text of one page of the PDF at path.
func (Extractor) PageText(path string, page int) (string, error) {
	doc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = doc.Close() }()
	return doc.PageText(page)
}

// Pages returns the text of every page in order, stopping early when ctx is done.
func (Extractor) Pages(ctx context.Context, path string) ([]string, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	n, err := doc.NumPages()
	if err != nil {
		return nil, err
	}
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.PageText(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}
	return pages, nil
}
