package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

type registerFixture struct {
	models     *modelRepoFake
	manuals    *manualRepoFake
	categories *categoryRepoFake
	users      *userRepoFake
	store      *storeFake
	processor  *processorFake
	inspector  *inspectorFake
	uc         *RegisterModelUseCase
}

func newRegisterFixture() *registerFixture {
	f := &registerFixture{
		models:     newModelRepoFake(),
		manuals:    newManualRepoFake(),
		categories: newCategoryRepoFake(),
		users:      newUserRepoFake(),
		store:      newStoreFake(),
		processor:  &processorFake{},
		inspector:  &inspectorFake{},
	}
	f.uc = NewRegisterModelUseCase(
		f.models, f.manuals, f.categories, f.users, f.store, f.processor, f.inspector,
	)
	return f
}

func pdfUpload() ports.ManualUpload {
	return ports.ManualUpload{
		Filename:    "user guide.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake body"),
	}
}

func (f *registerFixture) seedCategory(brandID int64) *domain.Category {
	category := &domain.Category{BrandID: brandID, Name: "printers"}
	_ = f.categories.Create(context.Background(), category)
	return category
}

func TestRegisterPublicSuccess(t *testing.T) {
	f := newRegisterFixture()
	category := f.seedCategory(7)

	model, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if err != nil {
		t.Fatalf("RegisterPublic() error = %v", err)
	}

	if model.OwnerID != nil {
		t.Fatalf("public model must have no owner, got %v", *model.OwnerID)
	}
	if model.CategoryID == nil || *model.CategoryID != category.ID {
		t.Fatalf("expected category %d, got %v", category.ID, model.CategoryID)
	}
	if model.BrandID == nil || *model.BrandID != 7 {
		t.Fatalf("expected derived brand 7, got %v", model.BrandID)
	}
	if model.ManualID == nil {
		t.Fatalf("expected linked manual id")
	}

	manual, err := f.manuals.GetByID(context.Background(), *model.ManualID)
	if err != nil {
		t.Fatalf("GetByID(manual) error = %v", err)
	}
	if manual.ModelID == nil || *manual.ModelID != model.ID {
		t.Fatalf("manual not linked back to model: %v", manual.ModelID)
	}
	if manual.ModelName != "PRNT-200" {
		t.Fatalf("expected manual model name PRNT-200, got %q", manual.ModelName)
	}
	if manual.UploaderID != nil {
		t.Fatalf("public manual must have no uploader, got %v", *manual.UploaderID)
	}
	if !manual.Processed {
		t.Fatalf("expected processed flag set after accepted submit")
	}
	if !strings.HasSuffix(manual.StorageKey, "_user_guide.pdf") {
		t.Fatalf("expected sanitized storage key, got %q", manual.StorageKey)
	}

	if f.processor.submittedDoc != "PRNT-200" {
		t.Fatalf("expected submit doc_name PRNT-200, got %q", f.processor.submittedDoc)
	}
	stored, ok := f.store.files[manual.StorageKey]
	if !ok {
		t.Fatalf("expected file stored under %q", manual.StorageKey)
	}
	if !bytes.Equal(stored, pdfUpload().Data) {
		t.Fatalf("stored bytes differ from upload")
	}
}

func TestRegisterPersonalSuccess(t *testing.T) {
	f := newRegisterFixture()
	owner := &domain.User{Email: "a@b.c", Role: domain.RoleUser}
	_ = f.users.Create(context.Background(), owner)

	model, err := f.uc.RegisterPersonal(context.Background(), "WM-1400", owner.ID, pdfUpload())
	if err != nil {
		t.Fatalf("RegisterPersonal() error = %v", err)
	}

	if model.OwnerID == nil || *model.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %v", owner.ID, model.OwnerID)
	}
	if model.CategoryID != nil || model.BrandID != nil {
		t.Fatalf("personal model must have no category/brand")
	}

	manual, err := f.manuals.GetByModelID(context.Background(), model.ID)
	if err != nil {
		t.Fatalf("GetByModelID() error = %v", err)
	}
	if manual.UploaderID == nil || *manual.UploaderID != owner.ID {
		t.Fatalf("expected uploader %d, got %v", owner.ID, manual.UploaderID)
	}
}

func TestRegisterDuplicateNameNoSideEffects(t *testing.T) {
	f := newRegisterFixture()
	category := f.seedCategory(1)
	if _, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload()); err != nil {
		t.Fatalf("first registration error = %v", err)
	}
	filesBefore := len(f.store.files)

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if len(f.store.files) != filesBefore {
		t.Fatalf("duplicate registration must not store another file")
	}
	if len(f.manuals.byID) != 1 {
		t.Fatalf("expected single manual row, got %d", len(f.manuals.byID))
	}
}

func TestRegisterValidatesBeforeExternalCall(t *testing.T) {
	f := newRegisterFixture()
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "ab", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrNameTooShort) {
		t.Fatalf("expected ErrNameTooShort, got %v", err)
	}
	if f.processor.submittedDoc != "" {
		t.Fatalf("validation failure must not reach the processing service")
	}
	if len(f.store.files) != 0 {
		t.Fatalf("validation failure must not store files")
	}
}

func TestRegisterForbiddenScriptName(t *testing.T) {
	f := newRegisterFixture()
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "프린터모델", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrNameForbiddenScript) {
		t.Fatalf("expected ErrNameForbiddenScript, got %v", err)
	}
}

func TestRegisterRejectedByInspector(t *testing.T) {
	f := newRegisterFixture()
	f.inspector.err = domain.WrapError(domain.ErrInvalidFile, "inspect", errors.New("not a pdf"))
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
	if f.processor.submittedDoc != "" {
		t.Fatalf("rejected file must not reach the processing service")
	}
}

func TestRegisterProcessingFailureCreatesNothing(t *testing.T) {
	f := newRegisterFixture()
	f.processor.submitErr = domain.WrapError(domain.ErrProcessingFailed, "submit", errors.New("processing failed"))
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrProcessingFailed) {
		t.Fatalf("expected ErrProcessingFailed, got %v", err)
	}
	if len(f.store.files) != 0 {
		t.Fatalf("no file may exist after processing rejection")
	}
	if len(f.models.byID) != 0 || len(f.manuals.byID) != 0 {
		t.Fatalf("no rows may exist after processing rejection")
	}
}

func TestRegisterStorageFailureCreatesNoRows(t *testing.T) {
	f := newRegisterFixture()
	f.store.saveErr = errors.New("disk full")
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if !domain.IsKind(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(f.models.byID) != 0 || len(f.manuals.byID) != 0 {
		t.Fatalf("no rows may exist after storage failure")
	}
}

func TestRegisterModelPersistFailureCleansUp(t *testing.T) {
	f := newRegisterFixture()
	f.models.createErr = errors.New("insert failed")
	category := f.seedCategory(1)

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", category.ID, pdfUpload())
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(f.manuals.byID) != 0 {
		t.Fatalf("manual row must be cleaned up, got %d rows", len(f.manuals.byID))
	}
	if len(f.store.files) != 0 {
		t.Fatalf("stored file must be cleaned up, got %d files", len(f.store.files))
	}
}

func TestRegisterUnknownCategory(t *testing.T) {
	f := newRegisterFixture()

	_, err := f.uc.RegisterPublic(context.Background(), "PRNT-200", 99, pdfUpload())
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRegisterPersonalUnknownOwner(t *testing.T) {
	f := newRegisterFixture()

	_, err := f.uc.RegisterPersonal(context.Background(), "PRNT-200", 42, pdfUpload())
	if !domain.IsKind(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
