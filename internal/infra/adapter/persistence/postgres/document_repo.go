package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"smartvision/internal/domain/entity"
	"smartvision/internal/repository"
)

type DocumentRepo struct{ db *sql.DB }

func NewDocumentRepo(db *sql.DB) repository.DocumentRepository {
	return &DocumentRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*entity.Document, error) {
	var doc entity.Document
	if err := s.Scan(
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
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
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
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, 50)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return docs, nil
}

func (repo *DocumentRepo) FindByName(ctx context.Context, name string) (*entity.Document, error) {
	const query = `
SELECT id, name, filename, path, size, page_count, uploaded_at, user_id
FROM documents
WHERE name ILIKE $1 ESCAPE '\'
ORDER BY id ASC
LIMIT 1`
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, query, repository.ContainsPattern(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByName: %w", err)
	}
	return doc, nil
}

func (repo *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO documents (name, filename, path, size, page_count, uploaded_at, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		doc.Name, doc.Filename, doc.Path,
		doc.Size, doc.PageCount, doc.UploadedAt, doc.UserID,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DocumentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

// ExistingFilenames checks all names in one round trip with = ANY($1).
func (repo *DocumentRepo) ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error) {
	result := make(map[string]bool, len(filenames))
	if len(filenames) == 0 {
		return result, nil
	}

	const query = `SELECT filename FROM documents WHERE filename = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(filenames))
	if err != nil {
		return nil, fmt.Errorf("ExistingFilenames: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ExistingFilenames: Scan: %w", err)
		}
		result[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistingFilenames: rows.Err: %w", err)
	}
	return result, nil
}
