package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// ManageManualsUseCase serves stored manual files and the delete path that
// is keyed by model rather than by manual id.
type ManageManualsUseCase struct {
	manuals ports.ManualRepository
	users   ports.UserRepository
	store   ports.DocumentStore
}

func NewManageManualsUseCase(
	manuals ports.ManualRepository,
	users ports.UserRepository,
	store ports.DocumentStore,
) *ManageManualsUseCase {
	return &ManageManualsUseCase{manuals: manuals, users: users, store: store}
}

// Open returns the manual row and a reader over its stored bytes. The store
// resolves legacy full-path rows as well as bare keys.
func (uc *ManageManualsUseCase) Open(ctx context.Context, manualID int64) (*domain.Manual, io.ReadCloser, error) {
	manual, err := uc.manuals.GetByID(ctx, manualID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch manual %d: %w", manualID, err)
	}
	file, err := uc.store.Open(ctx, manual.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open manual %d: %w", manualID, err)
	}
	return manual, file, nil
}

func (uc *ManageManualsUseCase) ListByUploader(ctx context.Context, uploaderID int64) ([]domain.Manual, error) {
	if _, err := uc.users.GetByID(ctx, uploaderID); err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", uploaderID, err)
	}
	return uc.manuals.ListByUploader(ctx, uploaderID)
}

// DeleteByModel removes the manual attached to a model, file first. Only
// the uploader or an administrator may delete; a nil requester (system
// call) is unrestricted.
func (uc *ManageManualsUseCase) DeleteByModel(ctx context.Context, modelID int64, requester *domain.User) error {
	manual, err := uc.manuals.GetByModelID(ctx, modelID)
	if err != nil {
		return fmt.Errorf("fetch manual of model %d: %w", modelID, err)
	}

	if requester != nil && !requester.IsAdmin() {
		if manual.UploaderID == nil || *manual.UploaderID != requester.ID {
			return domain.WrapError(domain.ErrForbidden, "delete manual",
				fmt.Errorf("manual %d not uploaded by user %d", manual.ID, requester.ID))
		}
	}

	if err := uc.store.Delete(ctx, manual.StorageKey); err != nil {
		return domain.WrapError(domain.ErrStorage, "delete manual file", err)
	}
	if err := uc.manuals.Delete(ctx, manual.ID); err != nil {
		return fmt.Errorf("delete manual %d: %w", manual.ID, err)
	}
	return nil
}
