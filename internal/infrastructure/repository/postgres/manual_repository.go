package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
)

type ManualRepository struct {
	db *sql.DB
}

func NewManualRepository(db *sql.DB) *ManualRepository {
	return &ManualRepository{db: db}
}

const manualColumns = `id, file_name, storage_key, model_name, uploaded_at, uploader_id, model_id, processed`

func (r *ManualRepository) Create(ctx context.Context, m *domain.Manual) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO manuals (file_name, storage_key, model_name, uploaded_at, uploader_id, model_id, processed)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`, m.FileName, m.StorageKey, m.ModelName, m.UploadedAt, m.UploaderID, m.ModelID, m.Processed).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert manual: %w", err)
	}
	return nil
}

func (r *ManualRepository) GetByID(ctx context.Context, id int64) (*domain.Manual, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+manualColumns+`
FROM manuals
WHERE id = $1
`, id)
	return scanManual(row, "fetch manual")
}

func (r *ManualRepository) GetByModelID(ctx context.Context, modelID int64) (*domain.Manual, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+manualColumns+`
FROM manuals
WHERE model_id = $1
`, modelID)
	return scanManual(row, "fetch manual by model")
}

func (r *ManualRepository) ListByUploader(ctx context.Context, uploaderID int64) ([]domain.Manual, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+manualColumns+`
FROM manuals
WHERE uploader_id = $1
ORDER BY id
`, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("list manuals: %w", err)
	}
	defer rows.Close()

	var out []domain.Manual
	for rows.Next() {
		var m domain.Manual
		if err := rows.Scan(&m.ID, &m.FileName, &m.StorageKey, &m.ModelName, &m.UploadedAt, &m.UploaderID, &m.ModelID, &m.Processed); err != nil {
			return nil, fmt.Errorf("scan manual: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manuals: %w", err)
	}
	return out, nil
}

func (r *ManualRepository) Update(ctx context.Context, m *domain.Manual) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE manuals
SET file_name = $2, storage_key = $3, model_name = $4, uploader_id = $5, model_id = $6, processed = $7
WHERE id = $1
`, m.ID, m.FileName, m.StorageKey, m.ModelName, m.UploaderID, m.ModelID, m.Processed)
	if err != nil {
		return fmt.Errorf("update manual: %w", err)
	}
	return requireRow(res, "update manual", domain.ErrManualNotFound)
}

func (r *ManualRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM manuals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manual: %w", err)
	}
	return requireRow(res, "delete manual", domain.ErrManualNotFound)
}

func scanManual(row *sql.Row, operation string) (*domain.Manual, error) {
	var m domain.Manual
	err := row.Scan(&m.ID, &m.FileName, &m.StorageKey, &m.ModelName, &m.UploadedAt, &m.UploaderID, &m.ModelID, &m.Processed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrManualNotFound, operation, err)
		}
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return &m, nil
}
