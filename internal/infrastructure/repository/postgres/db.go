package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mhcho/manualhub/internal/core/domain"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the catalog tables. The unique constraint on
// models.name is the second line of defense behind the check-then-act
// validation in the registration pipeline. Models under a category are
// deliberately NOT cascaded by the database; the catalog service deletes
// them explicitly.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS brands (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	brand_id BIGINT NOT NULL REFERENCES brands(id),
	name TEXT NOT NULL,
	UNIQUE (brand_id, name)
);

CREATE TABLE IF NOT EXISTS manuals (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	file_name TEXT NOT NULL,
	storage_key TEXT NOT NULL UNIQUE,
	model_name TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL,
	uploader_id BIGINT REFERENCES users(id),
	model_id BIGINT,
	processed BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS models (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category_id BIGINT REFERENCES categories(id),
	brand_id BIGINT REFERENCES brands(id),
	owner_id BIGINT REFERENCES users(id),
	manual_id BIGINT REFERENCES manuals(id)
);

CREATE INDEX IF NOT EXISTS idx_models_category ON models(category_id);
CREATE INDEX IF NOT EXISTS idx_models_owner ON models(owner_id);
CREATE INDEX IF NOT EXISTS idx_manuals_model ON manuals(model_id);
CREATE INDEX IF NOT EXISTS idx_manuals_uploader ON manuals(uploader_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

// mapUniqueName converts a unique-constraint violation on models.name into
// the same DuplicateName error the validator produces.
func mapUniqueName(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.WrapError(domain.ErrDuplicateName, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
