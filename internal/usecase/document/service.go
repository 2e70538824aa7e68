package document

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"smartvision/internal/domain/entity"
	"smartvision/internal/infra/pdftext"
	"smartvision/internal/repository"
)

// DefaultMaxUploadBytes is the upload limit used when Service.MaxUploadBytes is zero.
const DefaultMaxUploadBytes int64 = 10 << 20

// FileStore keeps the uploaded files.
type FileStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, int64, error)
	Remove(name string) error
	Path(name string) (string, error)
}

// TextExtractor reads PDF files by path.
type TextExtractor interface {
	PageCount(path string) (int, error)
	PageText(path string, page int) (string, error)
	Pages(ctx context.Context, path string) ([]string, error)
}

// UploadInput describes one uploaded file.
type UploadInput struct {
	// Name is the display name; OriginalName is used when it is blank.
	Name         string
	OriginalName string
	ContentType  string
	// Size is the declared size, -1 when unknown.
	Size int64
	Body io.Reader
}

// Service provides document management use cases.
type Service struct {
	Repo      repository.DocumentRepository
	Files     FileStore
	Extractor TextExtractor

	// MaxUploadBytes caps uploads; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64

	Logger *slog.Logger
	Now    func() time.Time
}

func (s *Service) maxBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IsPDFContentType reports whether a multipart content type names a PDF.
func IsPDFContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/pdf"
}

// Upload validates and stores a PDF, then records it.
// The stored file is removed again when the record cannot be saved.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*entity.Document, error) {
	doc, err := s.upload(ctx, in)
	switch {
	case err == nil:
		uploadsTotal.WithLabelValues("success").Inc()
		uploadBytes.Observe(float64(doc.Size))
	case errors.Is(err, ErrNotPDF), errors.Is(err, ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidPDF), errors.Is(err, entity.ErrInvalidInput):
		uploadsTotal.WithLabelValues("rejected").Inc()
	default:
		uploadsTotal.WithLabelValues("error").Inc()
	}
	return doc, err
}

func (s *Service) upload(ctx context.Context, in UploadInput) (*entity.Document, error) {
	if in.Body == nil {
		return nil, &entity.ValidationError{Field: "pdf", Message: "is required"}
	}
	if !IsPDFContentType(in.ContentType) {
		return nil, ErrNotPDF
	}
	limit := s.maxBytes()
	if in.Size > limit {
		return nil, ErrFileTooLarge
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		if original := strings.TrimSpace(in.OriginalName); original != "" {
			name = filepath.Base(original)
		}
	}
	if err := entity.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	// 拡張子ではなく先頭バイトで判定する
	br := bufio.NewReader(in.Body)
	head, err := br.Peek(len(pdftext.Magic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !pdftext.HasMagic(head) {
		return nil, entity.ErrInvalidPDF
	}

	// one byte past the limit tells an oversized body from an exact fit
	filename, size, err := s.Files.Save(ctx, ".pdf", io.LimitReader(br, limit+1))
	if err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}
	if size > limit {
		s.discard(filename)
		return nil, ErrFileTooLarge
	}

	pages := 0
	if path, err := s.Files.Path(filename); err == nil {
		if n, err := s.Extractor.PageCount(path); err == nil {
			pages = n
		} else {
			s.logger().Warn("could not count pdf pages",
				slog.String("filename", filename),
				slog.Any("error", err))
		}
	}

	doc := &entity.Document{
		Name:       name,
		Filename:   filename,
		Path:       entity.PublicPath(filename),
		Size:       size,
		PageCount:  pages,
		UploadedAt: s.now().UTC(),
	}
	if err := doc.Validate(); err != nil {
		s.discard(filename)
		return nil, err
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(filename)
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger().Info("document uploaded",
		slog.Int64("id", doc.ID),
		slog.String("filename", doc.Filename),
		slog.Int64("size", doc.Size),
		slog.Int("pages", doc.PageCount))
	return doc, nil
}

// discard removes a stored file after a failed upload.
func (s *Service) discard(filename string) {
	if err := s.Files.Remove(filename); err != nil {
		orphanCleanupFailures.Inc()
		s.logger().Error("failed to remove stored file after failed upload",
			slog.String("filename", filename),
			slog.Any("error", err))
	}
}

// List returns every document, newest upload first.
func (s *Service) List(ctx context.Context) ([]*entity.Document, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// FindByName returns the first document whose name contains name, ignoring case.
// The term is matched literally.
func (s *Service) FindByName(ctx context.Context, name string) (*entity.Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "is required"}
	}
	doc, err := s.Repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find document by name: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidDocumentID
	}
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Delete removes the stored file and then the record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Files.Remove(doc.Filename); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	deletesTotal.Inc()
	s.logger().Info("document deleted", slog.Int64("id", id), slog.String("filename", doc.Filename))
	return nil
}

// PageText returns the plain text of page (1-based).
func (s *Service) PageText(ctx context.Context, id int64, page int) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !doc.HasPage(page) {
		return "", fmt.Errorf("%w: page %d of %d", entity.ErrPageOutOfRange, page, doc.PageCount)
	}
	path, err := s.Files.Path(doc.Filename)
	if err != nil {
		return "", err
	}
	text, err := s.Extractor.PageText(path, page)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	return text, nil
}

// PageTexts returns the text of every page in order.
func (s *Service) PageTexts(ctx context.Context, id int64) ([]string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.Files.Path(doc.Filename)
	if err != nil {
		return nil, err
	}
	pages, err := s.Extractor.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}
	return pages, nil
}
