// Package storage keeps uploaded PDF files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartvision/internal/domain/entity"
)

// FileInfo describes one stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Local stores files flat inside a single directory.
type Local struct {
	dir string
	now func() time.Time
}

// NewLocal returns a Local rooted at dir, creating the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &Local{dir: dir, now: time.Now}, nil
}

// Dir returns the root directory.
func (l *Local) Dir() string { return l.dir }

// UniqueName builds a stored file name of the form <unix-millis>-<uuid><ext>.
func (l *Local) UniqueName(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%d-%s%s", l.now().UnixMilli(), uuid.NewString(), ext)
}

// Save copies r into a new file and returns its name and size.
// A partially written file is removed when the copy fails.
func (l *Local) Save(ctx context.Context, ext string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	name := l.UniqueName(ext)
	full := filepath.Join(l.dir, name)

	// #nosec G304 -- name is generated above
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("storage: create file: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(full)
		return "", 0, fmt.Errorf("storage: write file: %w", err)
	}
	return name, n, nil
}

// Path returns the filesystem path of a stored file.
func (l *Local) Path(name string) (string, error) {
	if err := entity.ValidateStoredFilename(name); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, name), nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (l *Local) Remove(name string) error {
	full, err := l.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

// Exists reports whether a stored file is present.
func (l *Local) Exists(name string) (bool, error) {
	full, err := l.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// List returns the stored PDF files sorted by name. Subdirectories and other
// files are skipped.
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || entity.ValidateStoredFilename(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// 列挙中に削除された
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
