package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// RegisterModelUseCase runs the ingestion pipeline: validate the name,
// inspect the file, hand the document to the processing service, store the
// bytes, then persist and link the manual and model rows. The external
// submit happens before any durable record so a rejected document never
// leaves rows behind.
type RegisterModelUseCase struct {
	models     ports.ModelRepository
	manuals    ports.ManualRepository
	categories ports.CategoryRepository
	users      ports.UserRepository
	store      ports.DocumentStore
	processor  ports.ManualProcessor
	inspector  ports.FileInspector
}

func NewRegisterModelUseCase(
	models ports.ModelRepository,
	manuals ports.ManualRepository,
	categories ports.CategoryRepository,
	users ports.UserRepository,
	store ports.DocumentStore,
	processor ports.ManualProcessor,
	inspector ports.FileInspector,
) *RegisterModelUseCase {
	return &RegisterModelUseCase{
		models:     models,
		manuals:    manuals,
		categories: categories,
		users:      users,
		store:      store,
		processor:  processor,
		inspector:  inspector,
	}
}

// RegisterPublic creates a public model under the given category; the brand
// is derived from the category, never supplied by the caller. No uploader
// is recorded on the manual: the acting administrator is not a personal
// attribution.
func (uc *RegisterModelUseCase) RegisterPublic(
	ctx context.Context,
	name string,
	categoryID int64,
	upload ports.ManualUpload,
) (*domain.Model, error) {
	if err := uc.validate(ctx, name, upload); err != nil {
		return nil, err
	}

	category, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("resolve category %d: %w", categoryID, err)
	}

	model := &domain.Model{
		Name:       name,
		CategoryID: &category.ID,
		BrandID:    &category.BrandID,
	}
	return uc.ingest(ctx, model, upload, nil)
}

// RegisterPersonal creates a personal model owned by ownerID; the owner is
// also recorded as the manual's uploader.
func (uc *RegisterModelUseCase) RegisterPersonal(
	ctx context.Context,
	name string,
	ownerID int64,
	upload ports.ManualUpload,
) (*domain.Model, error) {
	if err := uc.validate(ctx, name, upload); err != nil {
		return nil, err
	}

	owner, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner %d: %w", ownerID, err)
	}

	model := &domain.Model{
		Name:    name,
		OwnerID: &owner.ID,
	}
	return uc.ingest(ctx, model, upload, &owner.ID)
}

// validate fails fast, before any external call or disk write.
func (uc *RegisterModelUseCase) validate(ctx context.Context, name string, upload ports.ManualUpload) error {
	if err := domain.ValidateModelName(name); err != nil {
		return domain.WrapError(err, "validate name", errors.New(name))
	}
	exists, err := uc.models.ExistsByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check name uniqueness: %w", err)
	}
	if exists {
		return domain.WrapError(domain.ErrDuplicateName, "validate name", errors.New(name))
	}
	if err := uc.inspector.Inspect(upload.Filename, upload.ContentType, upload.Data); err != nil {
		return fmt.Errorf("inspect manual file: %w", err)
	}
	return nil
}

func (uc *RegisterModelUseCase) ingest(
	ctx context.Context,
	model *domain.Model,
	upload ports.ManualUpload,
	uploaderID *int64,
) (*domain.Model, error) {
	// The model name is the document identifier on the processing side.
	if err := uc.processor.Submit(ctx, model.Name, upload.Filename, bytes.NewReader(upload.Data)); err != nil {
		return nil, fmt.Errorf("submit manual %q to processing service: %w", model.Name, err)
	}

	storageKey := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(upload.Filename))
	if err := uc.store.Save(ctx, storageKey, bytes.NewReader(upload.Data)); err != nil {
		// The processing service already accepted the document and exposes
		// no cancel call; the inconsistency is logged, not reconciled.
		slog.Warn("manual_store_failed_after_submit", "doc_name", model.Name, "error", err)
		return nil, domain.WrapError(domain.ErrStorage, "store manual file", err)
	}

	manual := &domain.Manual{
		FileName:   upload.Filename,
		StorageKey: storageKey,
		ModelName:  model.Name,
		UploadedAt: time.Now().UTC(),
		UploaderID: uploaderID,
		Processed:  true,
	}
	if err := uc.manuals.Create(ctx, manual); err != nil {
		uc.discardFile(ctx, model.Name, storageKey)
		return nil, fmt.Errorf("persist manual: %w", err)
	}

	if err := uc.models.Create(ctx, model); err != nil {
		uc.discardManual(ctx, model.Name, manual)
		return nil, fmt.Errorf("persist model %q: %w", model.Name, err)
	}

	if err := uc.link(ctx, model, manual); err != nil {
		uc.discardModel(ctx, model)
		uc.discardManual(ctx, model.Name, manual)
		return nil, fmt.Errorf("link model %q to manual: %w", model.Name, err)
	}
	return model, nil
}

func (uc *RegisterModelUseCase) link(ctx context.Context, model *domain.Model, manual *domain.Manual) error {
	manual.ModelID = &model.ID
	if err := uc.manuals.Update(ctx, manual); err != nil {
		return err
	}
	model.ManualID = &manual.ID
	return uc.models.Update(ctx, model)
}

// Compensation is best-effort: failures are logged and the pipeline error
// is returned unchanged.

func (uc *RegisterModelUseCase) discardFile(ctx context.Context, docName, key string) {
	if err := uc.store.Delete(ctx, key); err != nil {
		slog.Warn("manual_file_cleanup_failed", "doc_name", docName, "storage_key", key, "error", err)
	}
}

func (uc *RegisterModelUseCase) discardManual(ctx context.Context, docName string, manual *domain.Manual) {
	if err := uc.manuals.Delete(ctx, manual.ID); err != nil {
		slog.Warn("manual_row_cleanup_failed", "doc_name", docName, "manual_id", manual.ID, "error", err)
	}
	uc.discardFile(ctx, docName, manual.StorageKey)
}

func (uc *RegisterModelUseCase) discardModel(ctx context.Context, model *domain.Model) {
	if err := uc.models.Delete(ctx, model.ID); err != nil {
		slog.Warn("model_row_cleanup_failed", "doc_name", model.Name, "model_id", model.ID, "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "manual.pdf"
	}
	return base
}
