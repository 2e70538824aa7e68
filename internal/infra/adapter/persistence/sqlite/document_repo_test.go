package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"smartvision/internal/domain/entity"
	"smartvision/internal/infra/adapter/persistence/sqlite"
)

// ─────────────────────────────────────────────
// ヘルパ：行生成
// ─────────────────────────────────────────────
var columns = []string{
	"id", "name", "filename", "path", "size", "page_count", "uploaded_at", "user_id",
}

func row(d *entity.Document) *sqlmock.Rows {
	return sqlmock.NewRows(columns).
		AddRow(d.ID, d.Name, d.Filename, d.Path, d.Size, d.PageCount, d.UploadedAt, nil)
}

func sample(id int64) *entity.Document {
	return &entity.Document{
		ID:         id,
		Name:       "Manual",
		Filename:   fmt.Sprintf("%d.pdf", id),
		Path:       fmt.Sprintf("/uploads/%d.pdf", id),
		Size:       100,
		PageCount:  1,
		UploadedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// ─────────────────────────────────────────────
// 1. Get
// ─────────────────────────────────────────────
func TestDocumentRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := sample(1)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(row(want))

	got, err := sqlite.NewDocumentRepo(db).Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

// ─────────────────────────────────────────────
// 2. FindByName
// ─────────────────────────────────────────────
func TestDocumentRepo_FindByName(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name LIKE ? ESCAPE '\'`)).
		WithArgs(`%user\_guide%`).
		WillReturnRows(row(sample(2)))

	got, err := sqlite.NewDocumentRepo(db).FindByName(context.Background(), "user_guide")
	if err != nil || got == nil || got.ID != 2 {
		t.Fatalf("FindByName = (%+v, %v)", got, err)
	}
}

// ─────────────────────────────────────────────
// 3. Create
// ─────────────────────────────────────────────
func TestDocumentRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	doc := sample(0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(doc.Name, doc.Filename, doc.Path, doc.Size, doc.PageCount, doc.UploadedAt, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	if err := sqlite.NewDocumentRepo(db).Create(context.Background(), doc); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if doc.ID != 11 {
		t.Errorf("expected ID 11, got %d", doc.ID)
	}
}

// ─────────────────────────────────────────────
// 4. Delete
// ─────────────────────────────────────────────
func TestDocumentRepo_Delete_NoRows(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sqlite.NewDocumentRepo(db).Delete(context.Background(), 3)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ─────────────────────────────────────────────
// 5. ExistingFilenames
// ─────────────────────────────────────────────
func TestDocumentRepo_ExistingFilenames_Chunks(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	names := make([]string, 1000)
	for i := range names {
		names[i] = fmt.Sprintf("%d.pdf", i)
	}

	mock.ExpectQuery("SELECT filename FROM documents WHERE filename IN").
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).AddRow("0.pdf"))
	mock.ExpectQuery("SELECT filename FROM documents WHERE filename IN").
		WithArgs("999.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).AddRow("999.pdf"))

	got, err := sqlite.NewDocumentRepo(db).ExistingFilenames(context.Background(), names)
	if err != nil {
		t.Fatalf("ExistingFilenames err=%v", err)
	}
	if diff := cmp.Diff(map[string]bool{"0.pdf": true, "999.pdf": true}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
