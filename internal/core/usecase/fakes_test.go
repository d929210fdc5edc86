package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/mhcho/manualhub/internal/core/domain"
)

// In-memory fakes shared by the use case tests. Error fields force a
// failure at the matching call site.

type modelRepoFake struct {
	byID      map[int64]*domain.Model
	nextID    int64
	createErr error
	updateErr error
	deleteErr error
}

func newModelRepoFake() *modelRepoFake {
	return &modelRepoFake{byID: make(map[int64]*domain.Model)}
}

func (f *modelRepoFake) Create(_ context.Context, m *domain.Model) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Name == m.Name {
			return domain.WrapError(domain.ErrDuplicateName, "insert model", errors.New(m.Name))
		}
	}
	f.nextID++
	m.ID = f.nextID
	copyModel := *m
	f.byID[m.ID] = &copyModel
	return nil
}

func (f *modelRepoFake) GetByID(_ context.Context, id int64) (*domain.Model, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrModelNotFound, "fetch model", errors.New("missing"))
	}
	copyModel := *m
	return &copyModel, nil
}

func (f *modelRepoFake) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, m := range f.byID {
		if m.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *modelRepoFake) Update(_ context.Context, m *domain.Model) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[m.ID]; !ok {
		return domain.WrapError(domain.ErrModelNotFound, "update model", errors.New("missing"))
	}
	copyModel := *m
	f.byID[m.ID] = &copyModel
	return nil
}

func (f *modelRepoFake) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.WrapError(domain.ErrModelNotFound, "delete model", errors.New("missing"))
	}
	delete(f.byID, id)
	return nil
}

func (f *modelRepoFake) ListPublic(context.Context) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range f.byID {
		if m.IsPublic() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *modelRepoFake) ListPublicByCategory(_ context.Context, categoryID int64) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range f.byID {
		if m.IsPublic() && m.CategoryID != nil && *m.CategoryID == categoryID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *modelRepoFake) ListByCategory(_ context.Context, categoryID int64) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range f.byID {
		if m.CategoryID != nil && *m.CategoryID == categoryID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *modelRepoFake) ListByOwner(_ context.Context, ownerID int64) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range f.byID {
		if m.OwnerID != nil && *m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *modelRepoFake) ListAll(context.Context) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range f.byID {
		out = append(out, *m)
	}
	return out, nil
}

type manualRepoFake struct {
	byID      map[int64]*domain.Manual
	nextID    int64
	createErr error
	updateErr error
	deleteErr error
}

func newManualRepoFake() *manualRepoFake {
	return &manualRepoFake{byID: make(map[int64]*domain.Manual)}
}

func (f *manualRepoFake) Create(_ context.Context, m *domain.Manual) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	copyManual := *m
	f.byID[m.ID] = &copyManual
	return nil
}

func (f *manualRepoFake) GetByID(_ context.Context, id int64) (*domain.Manual, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrManualNotFound, "fetch manual", errors.New("missing"))
	}
	copyManual := *m
	return &copyManual, nil
}

func (f *manualRepoFake) GetByModelID(_ context.Context, modelID int64) (*domain.Manual, error) {
	for _, m := range f.byID {
		if m.ModelID != nil && *m.ModelID == modelID {
			copyManual := *m
			return &copyManual, nil
		}
	}
	return nil, domain.WrapError(domain.ErrManualNotFound, "fetch manual by model", errors.New("missing"))
}

func (f *manualRepoFake) ListByUploader(_ context.Context, uploaderID int64) ([]domain.Manual, error) {
	var out []domain.Manual
	for _, m := range f.byID {
		if m.UploaderID != nil && *m.UploaderID == uploaderID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *manualRepoFake) Update(_ context.Context, m *domain.Manual) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[m.ID]; !ok {
		return domain.WrapError(domain.ErrManualNotFound, "update manual", errors.New("missing"))
	}
	copyManual := *m
	f.byID[m.ID] = &copyManual
	return nil
}

func (f *manualRepoFake) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.WrapError(domain.ErrManualNotFound, "delete manual", errors.New("missing"))
	}
	delete(f.byID, id)
	return nil
}

type brandRepoFake struct {
	byID   map[int64]*domain.Brand
	nextID int64
}

func newBrandRepoFake() *brandRepoFake {
	return &brandRepoFake{byID: make(map[int64]*domain.Brand)}
}

func (f *brandRepoFake) Create(_ context.Context, b *domain.Brand) error {
	f.nextID++
	b.ID = f.nextID
	copyBrand := *b
	f.byID[b.ID] = &copyBrand
	return nil
}

func (f *brandRepoFake) GetByID(_ context.Context, id int64) (*domain.Brand, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrBrandNotFound, "fetch brand", errors.New("missing"))
	}
	copyBrand := *b
	return &copyBrand, nil
}

func (f *brandRepoFake) List(context.Context) ([]domain.Brand, error) {
	var out []domain.Brand
	for _, b := range f.byID {
		out = append(out, *b)
	}
	return out, nil
}

func (f *brandRepoFake) Update(_ context.Context, b *domain.Brand) error {
	if _, ok := f.byID[b.ID]; !ok {
		return domain.WrapError(domain.ErrBrandNotFound, "update brand", errors.New("missing"))
	}
	copyBrand := *b
	f.byID[b.ID] = &copyBrand
	return nil
}

func (f *brandRepoFake) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.WrapError(domain.ErrBrandNotFound, "delete brand", errors.New("missing"))
	}
	delete(f.byID, id)
	return nil
}

type categoryRepoFake struct {
	byID   map[int64]*domain.Category
	nextID int64
}

func newCategoryRepoFake() *categoryRepoFake {
	return &categoryRepoFake{byID: make(map[int64]*domain.Category)}
}

func (f *categoryRepoFake) Create(_ context.Context, c *domain.Category) error {
	f.nextID++
	c.ID = f.nextID
	copyCategory := *c
	f.byID[c.ID] = &copyCategory
	return nil
}

func (f *categoryRepoFake) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrCategoryNotFound, "fetch category", errors.New("missing"))
	}
	copyCategory := *c
	return &copyCategory, nil
}

func (f *categoryRepoFake) ListByBrand(_ context.Context, brandID int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.byID {
		if c.BrandID == brandID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *categoryRepoFake) Update(_ context.Context, c *domain.Category) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.WrapError(domain.ErrCategoryNotFound, "update category", errors.New("missing"))
	}
	copyCategory := *c
	f.byID[c.ID] = &copyCategory
	return nil
}

func (f *categoryRepoFake) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.WrapError(domain.ErrCategoryNotFound, "delete category", errors.New("missing"))
	}
	delete(f.byID, id)
	return nil
}

type userRepoFake struct {
	byID   map[int64]*domain.User
	nextID int64
}

func newUserRepoFake() *userRepoFake {
	return &userRepoFake{byID: make(map[int64]*domain.User)}
}

func (f *userRepoFake) Create(_ context.Context, u *domain.User) error {
	f.nextID++
	u.ID = f.nextID
	copyUser := *u
	f.byID[u.ID] = &copyUser
	return nil
}

func (f *userRepoFake) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrUserNotFound, "fetch user", errors.New("missing"))
	}
	copyUser := *u
	return &copyUser, nil
}

func (f *userRepoFake) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			copyUser := *u
			return &copyUser, nil
		}
	}
	return nil, domain.WrapError(domain.ErrUserNotFound, "fetch user by email", errors.New("missing"))
}

func (f *userRepoFake) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type storeFake struct {
	files     map[string][]byte
	saveErr   error
	deleteErr error
}

func newStoreFake() *storeFake {
	return &storeFake{files: make(map[string][]byte)}
}

func (f *storeFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.files[key] = raw
	return nil
}

func (f *storeFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.files[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotReadable, "open file", errors.New(key))
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (f *storeFake) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.files, key)
	return nil
}

type processorFake struct {
	submitErr     error
	askErr        error
	submittedDoc  string
	submittedFile string
	submittedData []byte
	askedDoc      string
	askedQuestion string
	answer        *domain.Answer
}

func (f *processorFake) Submit(_ context.Context, docName, filename string, file io.Reader) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.submittedDoc = docName
	f.submittedFile = filename
	f.submittedData = raw
	return nil
}

func (f *processorFake) Ask(_ context.Context, docName, question string) (*domain.Answer, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	f.askedDoc = docName
	f.askedQuestion = question
	if f.answer != nil {
		return f.answer, nil
	}
	return &domain.Answer{Message: "success", Answer: "answer"}, nil
}

type inspectorFake struct {
	err error
}

func (f *inspectorFake) Inspect(string, string, []byte) error {
	return f.err
}
