package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
)

type ModelRepository struct {
	db *sql.DB
}

func NewModelRepository(db *sql.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

const modelColumns = `id, name, category_id, brand_id, owner_id, manual_id`

func (r *ModelRepository) Create(ctx context.Context, m *domain.Model) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO models (name, category_id, brand_id, owner_id, manual_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, m.Name, m.CategoryID, m.BrandID, m.OwnerID, m.ManualID).Scan(&m.ID)
	if err != nil {
		return mapUniqueName("insert model", err)
	}
	return nil
}

func (r *ModelRepository) GetByID(ctx context.Context, id int64) (*domain.Model, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+modelColumns+`
FROM models
WHERE id = $1
`, id)
	return scanModel(row)
}

func (r *ModelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM models WHERE name = $1)
`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check model name: %w", err)
	}
	return exists, nil
}

func (r *ModelRepository) Update(ctx context.Context, m *domain.Model) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE models
SET name = $2, category_id = $3, brand_id = $4, owner_id = $5, manual_id = $6
WHERE id = $1
`, m.ID, m.Name, m.CategoryID, m.BrandID, m.OwnerID, m.ManualID)
	if err != nil {
		return mapUniqueName("update model", err)
	}
	return requireRow(res, "update model", domain.ErrModelNotFound)
}

func (r *ModelRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return requireRow(res, "delete model", domain.ErrModelNotFound)
}

func (r *ModelRepository) ListPublic(ctx context.Context) ([]domain.Model, error) {
	return r.list(ctx, `
SELECT `+modelColumns+`
FROM models
WHERE owner_id IS NULL
ORDER BY id
`)
}

func (r *ModelRepository) ListPublicByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error) {
	return r.list(ctx, `
SELECT `+modelColumns+`
FROM models
WHERE owner_id IS NULL AND category_id = $1
ORDER BY id
`, categoryID)
}

func (r *ModelRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error) {
	return r.list(ctx, `
SELECT `+modelColumns+`
FROM models
WHERE category_id = $1
ORDER BY id
`, categoryID)
}

func (r *ModelRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Model, error) {
	return r.list(ctx, `
SELECT `+modelColumns+`
FROM models
WHERE owner_id = $1
ORDER BY id
`, ownerID)
}

func (r *ModelRepository) ListAll(ctx context.Context) ([]domain.Model, error) {
	return r.list(ctx, `
SELECT `+modelColumns+`
FROM models
ORDER BY id
`)
}

func (r *ModelRepository) list(ctx context.Context, query string, args ...any) ([]domain.Model, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []domain.Model
	for rows.Next() {
		var m domain.Model
		if err := rows.Scan(&m.ID, &m.Name, &m.CategoryID, &m.BrandID, &m.OwnerID, &m.ManualID); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate models: %w", err)
	}
	return out, nil
}

func scanModel(row *sql.Row) (*domain.Model, error) {
	var m domain.Model
	err := row.Scan(&m.ID, &m.Name, &m.CategoryID, &m.BrandID, &m.OwnerID, &m.ManualID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrModelNotFound, "fetch model", err)
		}
		return nil, fmt.Errorf("scan model: %w", err)
	}
	return &m, nil
}

func requireRow(res sql.Result, operation string, kind error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(kind, operation, sql.ErrNoRows)
	}
	return nil
}
