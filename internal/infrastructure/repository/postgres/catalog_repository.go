package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
)

type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO brands (name)
VALUES ($1)
RETURNING id
`, b.Name).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	var b domain.Brand
	err := r.db.QueryRowContext(ctx, `
SELECT id, name FROM brands WHERE id = $1
`, id).Scan(&b.ID, &b.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrBrandNotFound, "fetch brand", err)
		}
		return nil, fmt.Errorf("fetch brand: %w", err)
	}
	return &b, nil
}

func (r *BrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM brands ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var out []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return out, nil
}

func (r *BrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	res, err := r.db.ExecContext(ctx, `UPDATE brands SET name = $2 WHERE id = $1`, b.ID, b.Name)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	return requireRow(res, "update brand", domain.ErrBrandNotFound)
}

func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return requireRow(res, "delete brand", domain.ErrBrandNotFound)
}

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO categories (brand_id, name)
VALUES ($1,$2)
RETURNING id
`, c.BrandID, c.Name).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id, brand_id, name FROM categories WHERE id = $1
`, id).Scan(&c.ID, &c.BrandID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCategoryNotFound, "fetch category", err)
		}
		return nil, fmt.Errorf("fetch category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) ListByBrand(ctx context.Context, brandID int64) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, brand_id, name FROM categories WHERE brand_id = $1 ORDER BY id
`, brandID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE categories SET brand_id = $2, name = $3 WHERE id = $1
`, c.ID, c.BrandID, c.Name)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "update category", domain.ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "delete category", domain.ErrCategoryNotFound)
}
