package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// ManageModelsUseCase covers model reads and the mutation rules that keep
// the public/personal split intact after registration.
type ManageModelsUseCase struct {
	models     ports.ModelRepository
	manuals    ports.ManualRepository
	categories ports.CategoryRepository
	users      ports.UserRepository
	store      ports.DocumentStore
}

func NewManageModelsUseCase(
	models ports.ModelRepository,
	manuals ports.ManualRepository,
	categories ports.CategoryRepository,
	users ports.UserRepository,
	store ports.DocumentStore,
) *ManageModelsUseCase {
	return &ManageModelsUseCase{
		models:     models,
		manuals:    manuals,
		categories: categories,
		users:      users,
		store:      store,
	}
}

func (uc *ManageModelsUseCase) GetByID(ctx context.Context, id int64) (*domain.Model, error) {
	return uc.models.GetByID(ctx, id)
}

func (uc *ManageModelsUseCase) ListPublic(ctx context.Context) ([]domain.Model, error) {
	return uc.models.ListPublic(ctx)
}

func (uc *ManageModelsUseCase) ListPublicByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error) {
	if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("resolve category %d: %w", categoryID, err)
	}
	return uc.models.ListPublicByCategory(ctx, categoryID)
}

func (uc *ManageModelsUseCase) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Model, error) {
	if _, err := uc.users.GetByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", ownerID, err)
	}
	return uc.models.ListByOwner(ctx, ownerID)
}

func (uc *ManageModelsUseCase) ListAll(ctx context.Context) ([]domain.Model, error) {
	return uc.models.ListAll(ctx)
}

// UpdatePublic renames/recategorizes a public model. A personal model is
// rejected outright; it must go through the personal path.
func (uc *ManageModelsUseCase) UpdatePublic(ctx context.Context, id int64, name string, categoryID int64) (*domain.Model, error) {
	model, err := uc.models.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch model %d: %w", id, err)
	}
	if model.IsPersonal() {
		return nil, domain.WrapError(domain.ErrWrongClass, "update public model", fmt.Errorf("model %d is personal", id))
	}

	category, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("resolve category %d: %w", categoryID, err)
	}

	model.Name = name
	model.CategoryID = &category.ID
	model.BrandID = &category.BrandID
	if err := uc.models.Update(ctx, model); err != nil {
		return nil, fmt.Errorf("update model %d: %w", id, err)
	}
	return model, nil
}

func (uc *ManageModelsUseCase) UpdatePersonal(ctx context.Context, id int64, name string, requesterID int64) (*domain.Model, error) {
	model, err := uc.models.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch model %d: %w", id, err)
	}
	if !ownedBy(model, requesterID) {
		return nil, domain.WrapError(domain.ErrForbidden, "update personal model", fmt.Errorf("model %d not owned by user %d", id, requesterID))
	}

	model.Name = name
	if err := uc.models.Update(ctx, model); err != nil {
		return nil, fmt.Errorf("update model %d: %w", id, err)
	}
	return model, nil
}

// DeletePersonal removes a personal model together with its manual row and
// file. Only the owner may call it.
func (uc *ManageModelsUseCase) DeletePersonal(ctx context.Context, id, requesterID int64) error {
	model, err := uc.models.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch model %d: %w", id, err)
	}
	if !ownedBy(model, requesterID) {
		return domain.WrapError(domain.ErrForbidden, "delete personal model", fmt.Errorf("model %d not owned by user %d", id, requesterID))
	}
	return uc.deleteModel(ctx, model)
}

// DeleteByAdmin removes any model regardless of class or owner.
func (uc *ManageModelsUseCase) DeleteByAdmin(ctx context.Context, id int64) error {
	model, err := uc.models.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch model %d: %w", id, err)
	}
	return uc.deleteModel(ctx, model)
}

func (uc *ManageModelsUseCase) deleteModel(ctx context.Context, model *domain.Model) error {
	if err := purgeManual(ctx, uc.manuals, uc.store, model.ID); err != nil {
		return fmt.Errorf("purge manual of model %d: %w", model.ID, err)
	}
	if err := uc.models.Delete(ctx, model.ID); err != nil {
		return fmt.Errorf("delete model %d: %w", model.ID, err)
	}
	return nil
}

func ownedBy(model *domain.Model, userID int64) bool {
	return model.OwnerID != nil && *model.OwnerID == userID
}

// purgeManual deletes a model's manual row and stored file, file first: a
// failing file delete aborts the whole deletion so a row never references
// bytes we failed to remove. A model without a manual is fine.
func purgeManual(ctx context.Context, manuals ports.ManualRepository, store ports.DocumentStore, modelID int64) error {
	manual, err := manuals.GetByModelID(ctx, modelID)
	if err != nil {
		if errors.Is(err, domain.ErrManualNotFound) {
			return nil
		}
		return err
	}
	if err := store.Delete(ctx, manual.StorageKey); err != nil {
		return domain.WrapError(domain.ErrStorage, "delete manual file", err)
	}
	return manuals.Delete(ctx, manual.ID)
}
