package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartvision/internal/domain/entity"
)

var uniqueNamePattern = regexp.MustCompile(`^\d+-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.pdf$`)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return l
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestNewLocal_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	l, err := NewLocal(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, l.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLocal_EmptyDir(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestLocal_UniqueName(t *testing.T) {
	l := newTestLocal(t)
	l.now = func() time.Time { return time.UnixMilli(1700000000123) }

	a := l.UniqueName(".PDF")
	b := l.UniqueName(".pdf")

	assert.Regexp(t, uniqueNamePattern, a)
	assert.Contains(t, a, "1700000000123-")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, uniqueNamePattern, l.UniqueName(""))
}

func TestLocal_SaveAndRemove(t *testing.T) {
	l := newTestLocal(t)
	body := []byte("%PDF-1.4 fake")

	name, size, err := l.Save(context.Background(), ".pdf", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Regexp(t, uniqueNamePattern, name)
	assert.Equal(t, int64(len(body)), size)

	full, err := l.Path(name)
	require.NoError(t, err)
	got, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	ok, err := l.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Remove(name))
	ok, err = l.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)

	// 二回目の削除もエラーにならない
	assert.NoError(t, l.Remove(name))
}

func TestLocal_SaveCleansUpOnReadError(t *testing.T) {
	l := newTestLocal(t)

	_, _, err := l.Save(context.Background(), ".pdf", failingReader{})

	require.Error(t, err)
	files, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocal_SaveCancelledContext(t *testing.T) {
	l := newTestLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := l.Save(ctx, ".pdf", bytes.NewReader(nil))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	l := newTestLocal(t)

	for _, name := range []string{"../secret.pdf", "sub/x.pdf", "..", "notes.txt", ""} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, l.Remove(name), entity.ErrInvalidInput)
			_, err := l.Path(name)
			assert.Error(t, err)
		})
	}
}

func TestLocal_List(t *testing.T) {
	l := newTestLocal(t)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "b.pdf"), []byte("bb"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "a.pdf"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "readme.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(l.Dir(), "dir.pdf"), 0o755))

	files, err := l.List(context.Background())

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.pdf", files[0].Name)
	assert.Equal(t, int64(1), files[0].Size)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.False(t, files[1].ModTime.IsZero())
}
