package usecase

import (
	"context"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// ManageCatalogUseCase administers brands and categories. Deletes cascade
// explicitly: models under a category (and their manuals) are removed by
// this code, not by a database cascade.
type ManageCatalogUseCase struct {
	brands     ports.BrandRepository
	categories ports.CategoryRepository
	models     ports.ModelRepository
	manuals    ports.ManualRepository
	store      ports.DocumentStore
}

func NewManageCatalogUseCase(
	brands ports.BrandRepository,
	categories ports.CategoryRepository,
	models ports.ModelRepository,
	manuals ports.ManualRepository,
	store ports.DocumentStore,
) *ManageCatalogUseCase {
	return &ManageCatalogUseCase{
		brands:     brands,
		categories: categories,
		models:     models,
		manuals:    manuals,
		store:      store,
	}
}

func (uc *ManageCatalogUseCase) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	brand := &domain.Brand{Name: name}
	if err := uc.brands.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand %q: %w", name, err)
	}
	return brand, nil
}

func (uc *ManageCatalogUseCase) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return uc.brands.List(ctx)
}

func (uc *ManageCatalogUseCase) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	return uc.brands.GetByID(ctx, id)
}

func (uc *ManageCatalogUseCase) UpdateBrand(ctx context.Context, id int64, name string) (*domain.Brand, error) {
	brand, err := uc.brands.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch brand %d: %w", id, err)
	}
	brand.Name = name
	if err := uc.brands.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("update brand %d: %w", id, err)
	}
	return brand, nil
}

// DeleteBrand removes the brand, every category under it, every model under
// those categories and each model's manual, in leaf-first order.
func (uc *ManageCatalogUseCase) DeleteBrand(ctx context.Context, id int64) error {
	if _, err := uc.brands.GetByID(ctx, id); err != nil {
		return fmt.Errorf("fetch brand %d: %w", id, err)
	}

	categories, err := uc.categories.ListByBrand(ctx, id)
	if err != nil {
		return fmt.Errorf("list categories of brand %d: %w", id, err)
	}
	for _, category := range categories {
		if err := uc.deleteModelsUnderCategory(ctx, category.ID); err != nil {
			return err
		}
		if err := uc.categories.Delete(ctx, category.ID); err != nil {
			return fmt.Errorf("delete category %d: %w", category.ID, err)
		}
	}

	if err := uc.brands.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand %d: %w", id, err)
	}
	return nil
}

func (uc *ManageCatalogUseCase) CreateCategory(ctx context.Context, brandID int64, name string) (*domain.Category, error) {
	if _, err := uc.brands.GetByID(ctx, brandID); err != nil {
		return nil, fmt.Errorf("resolve brand %d: %w", brandID, err)
	}
	category := &domain.Category{BrandID: brandID, Name: name}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	return category, nil
}

func (uc *ManageCatalogUseCase) ListCategories(ctx context.Context, brandID int64) ([]domain.Category, error) {
	if _, err := uc.brands.GetByID(ctx, brandID); err != nil {
		return nil, fmt.Errorf("resolve brand %d: %w", brandID, err)
	}
	return uc.categories.ListByBrand(ctx, brandID)
}

func (uc *ManageCatalogUseCase) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch category %d: %w", id, err)
	}
	category.Name = name
	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return category, nil
}

// DeleteCategory removes the category and its models, manuals included.
func (uc *ManageCatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := uc.categories.GetByID(ctx, id); err != nil {
		return fmt.Errorf("fetch category %d: %w", id, err)
	}
	if err := uc.deleteModelsUnderCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (uc *ManageCatalogUseCase) deleteModelsUnderCategory(ctx context.Context, categoryID int64) error {
	models, err := uc.models.ListByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("list models of category %d: %w", categoryID, err)
	}
	for _, model := range models {
		if err := purgeManual(ctx, uc.manuals, uc.store, model.ID); err != nil {
			return fmt.Errorf("purge manual of model %d: %w", model.ID, err)
		}
		if err := uc.models.Delete(ctx, model.ID); err != nil {
			return fmt.Errorf("delete model %d: %w", model.ID, err)
		}
	}
	return nil
}
