package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartvision/internal/domain/entity"
	"smartvision/internal/repository"
)

// SQLiteのプレースホルダ上限は999
// 参考: https://www.sqlite.org/limits.html#max_variable_number
const maxPlaceholders = 999

type DocumentRepo struct{ db *sql.DB }

func NewDocumentRepo(db *sql.DB) repository.DocumentRepository {
	return &DocumentRepo{db: db}
}

func scanDocument(scan func(dest ...any) error) (*entity.Document, error) {
	var doc entity.Document
	if err := scan(
		&doc.ID, &doc.Name, &doc.Filename, &doc.Path,
		&doc.Size, &doc.PageCount, &doc.UploadedAt, &doc.UserID,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (repo *DocumentRepo) Get(ctx context.Context, id int64) (*entity.Document, error) {
	const query = `
SELECT id, name, filename, path, size, page_count, uploaded_at, user_id
FROM documents
WHERE id = ?
LIMIT 1`
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return doc, nil
}

func (repo *DocumentRepo) List(ctx context.Context) ([]*entity.Document, error) {
	const query = `
SELECT id, name, filename, path, size, page_count, uploaded_at, user_id
FROM documents
ORDER BY uploaded_at DESC, id DESC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, 50)
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return docs, nil
}

// FindByName relies on SQLite's LIKE, which folds case for ASCII letters only.
func (repo *DocumentRepo) FindByName(ctx context.Context, name string) (*entity.Document, error) {
	const query = `
SELECT id, name, filename, path, size, page_count, uploaded_at, user_id
FROM documents
WHERE name LIKE ? ESCAPE '\'
ORDER BY id ASC
LIMIT 1`
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, query, repository.ContainsPattern(name)).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByName: QueryRowContext: %w", err)
	}
	return doc, nil
}

func (repo *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO documents (name, filename, path, size, page_count, uploaded_at, user_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		doc.Name, doc.Filename, doc.Path,
		doc.Size, doc.PageCount, doc.UploadedAt, doc.UserID,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	doc.ID = id
	return nil
}

func (repo *DocumentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM documents WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

// ExistingFilenames queries in chunks that stay under the placeholder limit.
func (repo *DocumentRepo) ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error) {
	result := make(map[string]bool, len(filenames))
	for start := 0; start < len(filenames); start += maxPlaceholders {
		end := start + maxPlaceholders
		if end > len(filenames) {
			end = len(filenames)
		}
		if err := repo.existingChunk(ctx, filenames[start:end], result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (repo *DocumentRepo) existingChunk(ctx context.Context, chunk []string, result map[string]bool) error {
	// 安全性確認: placeholdersは"?"のみを含むため、SQLインジェクションのリスクはない
	placeholders := make([]string, len(chunk))
	args := make([]any, len(chunk))
	for i, name := range chunk {
		placeholders[i] = "?"
		args[i] = name
	}
	query := fmt.Sprintf("SELECT filename FROM documents WHERE filename IN (%s)",
		strings.Join(placeholders, ","))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ExistingFilenames: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("ExistingFilenames: Scan: %w", err)
		}
		result[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ExistingFilenames: rows.Err: %w", err)
	}
	return nil
}
