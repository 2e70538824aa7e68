package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    filename    TEXT NOT NULL UNIQUE,
    path        TEXT NOT NULL,
    size        BIGINT NOT NULL DEFAULT 0,
    page_count  INTEGER NOT NULL DEFAULT 0,
    uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    user_id     TEXT
)`,
	// 名前検索用
	`CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name)`,
	// 一覧 (ORDER BY uploaded_at DESC) 用
	`CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    filename    TEXT NOT NULL UNIQUE,
    path        TEXT NOT NULL,
    size        INTEGER NOT NULL DEFAULT 0,
    page_count  INTEGER NOT NULL DEFAULT 0,
    uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    user_id     TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC)`,
}

// MigrateUp creates the schema for dialect. Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect string) error {
	var stmts []string
	switch dialect {
	case DialectPostgres:
		stmts = postgresSchema
	case DialectSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported database dialect %q", dialect)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops the schema. All stored document rows are lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_documents_uploaded_at`,
		`DROP INDEX IF EXISTS idx_documents_name`,
		`DROP TABLE IF EXISTS documents`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
