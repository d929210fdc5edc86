package usecase

import (
	"context"
	"testing"

	"github.com/mhcho/manualhub/internal/core/domain"
)

type catalogFixture struct {
	brands     *brandRepoFake
	categories *categoryRepoFake
	models     *modelRepoFake
	manuals    *manualRepoFake
	store      *storeFake
	uc         *ManageCatalogUseCase
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		brands:     newBrandRepoFake(),
		categories: newCategoryRepoFake(),
		models:     newModelRepoFake(),
		manuals:    newManualRepoFake(),
		store:      newStoreFake(),
	}
	f.uc = NewManageCatalogUseCase(f.brands, f.categories, f.models, f.manuals, f.store)
	return f
}

func (f *catalogFixture) seedModelWithManual(name string, categoryID, brandID int64) {
	model := &domain.Model{Name: name, CategoryID: &categoryID, BrandID: &brandID}
	_ = f.models.Create(context.Background(), model)
	manual := &domain.Manual{
		FileName:   name + ".pdf",
		StorageKey: "key-" + name,
		ModelName:  name,
		ModelID:    &model.ID,
		Processed:  true,
	}
	_ = f.manuals.Create(context.Background(), manual)
	f.store.files[manual.StorageKey] = []byte("pdf")
	model.ManualID = &manual.ID
	_ = f.models.Update(context.Background(), model)
}

func TestDeleteBrandCascades(t *testing.T) {
	f := newCatalogFixture()
	brand, err := f.uc.CreateBrand(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("CreateBrand() error = %v", err)
	}
	category, err := f.uc.CreateCategory(context.Background(), brand.ID, "printers")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	f.seedModelWithManual("PRNT-100", category.ID, brand.ID)
	f.seedModelWithManual("PRNT-200", category.ID, brand.ID)

	if err := f.uc.DeleteBrand(context.Background(), brand.ID); err != nil {
		t.Fatalf("DeleteBrand() error = %v", err)
	}

	if len(f.models.byID) != 0 {
		t.Fatalf("expected all models removed, %d remain", len(f.models.byID))
	}
	if len(f.manuals.byID) != 0 {
		t.Fatalf("expected no orphaned manual rows, %d remain", len(f.manuals.byID))
	}
	if len(f.store.files) != 0 {
		t.Fatalf("expected all manual files removed, %d remain", len(f.store.files))
	}
	if len(f.categories.byID) != 0 {
		t.Fatalf("expected categories removed, %d remain", len(f.categories.byID))
	}
	if len(f.brands.byID) != 0 {
		t.Fatalf("expected brand removed")
	}
}

func TestDeleteCategoryCascadesModels(t *testing.T) {
	f := newCatalogFixture()
	brand, _ := f.uc.CreateBrand(context.Background(), "Acme")
	keep, _ := f.uc.CreateCategory(context.Background(), brand.ID, "scanners")
	doomed, _ := f.uc.CreateCategory(context.Background(), brand.ID, "printers")
	f.seedModelWithManual("PRNT-100", doomed.ID, brand.ID)
	f.seedModelWithManual("SCAN-100", keep.ID, brand.ID)

	if err := f.uc.DeleteCategory(context.Background(), doomed.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}

	if len(f.models.byID) != 1 {
		t.Fatalf("expected one surviving model, got %d", len(f.models.byID))
	}
	for _, m := range f.models.byID {
		if m.Name != "SCAN-100" {
			t.Fatalf("wrong model survived: %q", m.Name)
		}
	}
	if _, ok := f.store.files["key-SCAN-100"]; !ok {
		t.Fatalf("surviving model's manual file must remain")
	}
}

func TestCreateCategoryUnknownBrand(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.CreateCategory(context.Background(), 404, "printers")
	if !domain.IsKind(err, domain.ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestDeleteBrandUnknown(t *testing.T) {
	f := newCatalogFixture()

	err := f.uc.DeleteBrand(context.Background(), 404)
	if !domain.IsKind(err, domain.ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestUpdateBrandRename(t *testing.T) {
	f := newCatalogFixture()
	brand, _ := f.uc.CreateBrand(context.Background(), "Acme")

	updated, err := f.uc.UpdateBrand(context.Background(), brand.ID, "Acme Industries")
	if err != nil {
		t.Fatalf("UpdateBrand() error = %v", err)
	}
	if updated.Name != "Acme Industries" {
		t.Fatalf("expected renamed brand, got %q", updated.Name)
	}
}
