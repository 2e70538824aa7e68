// Package janitor reconciles the upload directory with the document table.
//
// Files with no document row are orphans left by uploads that crashed between
// storing the file and writing the row; they are removed once older than a grace
// period. Documents whose file is missing are reported and never deleted.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smartvision/internal/infra/storage"
	"smartvision/internal/repository"
)

// FileStore is the part of storage.Local the janitor needs.
type FileStore interface {
	List(ctx context.Context) ([]storage.FileInfo, error)
	Exists(name string) (bool, error)
	Remove(name string) error
}

// Report summarizes one run.
type Report struct {
	Files     int
	Documents int
	// OrphansRemoved lists deleted files.
	OrphansRemoved []string
	// OrphansPending counts unreferenced files still inside the grace period.
	OrphansPending int
	// MissingFiles lists ids of documents whose file is gone.
	MissingFiles []int64
	// RemoveErrors counts orphans that could not be deleted.
	RemoveErrors int
}

// Service runs reconciliation passes.
type Service struct {
	Repo        repository.DocumentRepository
	Files       FileStore
	GracePeriod time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run performs one pass. A failure to remove a single orphan is counted, not returned.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	files, err := s.Files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	referenced, err := s.Repo.ExistingFilenames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("lookup filenames: %w", err)
	}

	rep := &Report{Files: len(files)}
	cutoff := s.now().Add(-s.GracePeriod)
	for _, f := range files {
		if referenced[f.Name] {
			continue
		}
		if f.ModTime.After(cutoff) {
			rep.OrphansPending++
			continue
		}
		if err := s.Files.Remove(f.Name); err != nil {
			rep.RemoveErrors++
			s.logger().Error("failed to remove orphaned file",
				slog.String("filename", f.Name),
				slog.Any("error", err))
			continue
		}
		rep.OrphansRemoved = append(rep.OrphansRemoved, f.Name)
		s.logger().Info("orphaned file removed",
			slog.String("filename", f.Name),
			slog.Time("modified", f.ModTime))
	}

	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	rep.Documents = len(docs)
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := s.Files.Exists(d.Filename)
		if err != nil {
			return nil, fmt.Errorf("check file %s: %w", d.Filename, err)
		}
		if !ok {
			rep.MissingFiles = append(rep.MissingFiles, d.ID)
			s.logger().Warn("document file missing",
				slog.Int64("id", d.ID),
				slog.String("filename", d.Filename))
		}
	}
	return rep, nil
}
