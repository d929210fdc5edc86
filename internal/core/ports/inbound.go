package ports

import (
	"context"
	"io"

	"github.com/mhcho/manualhub/internal/core/domain"
)

// ManualUpload carries an uploaded manual through the registration
// pipeline. Data is fully buffered: the same bytes are sent to the
// processing service and then written to the document store.
type ManualUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ModelRegistrar is the inbound contract for end-to-end model registration.
type ModelRegistrar interface {
	RegisterPublic(ctx context.Context, name string, categoryID int64, upload ManualUpload) (*domain.Model, error)
	RegisterPersonal(ctx context.Context, name string, ownerID int64, upload ManualUpload) (*domain.Model, error)
}

// QuestionAnswerer is the inbound contract for manual Q&A.
type QuestionAnswerer interface {
	Answer(ctx context.Context, modelID int64, question string) (*domain.Answer, error)
}

// ModelManager covers catalog mutations and reads outside registration.
type ModelManager interface {
	GetByID(ctx context.Context, id int64) (*domain.Model, error)
	ListPublic(ctx context.Context) ([]domain.Model, error)
	ListPublicByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Model, error)
	ListAll(ctx context.Context) ([]domain.Model, error)
	UpdatePublic(ctx context.Context, id int64, name string, categoryID int64) (*domain.Model, error)
	UpdatePersonal(ctx context.Context, id int64, name string, requesterID int64) (*domain.Model, error)
	DeletePersonal(ctx context.Context, id, requesterID int64) error
	DeleteByAdmin(ctx context.Context, id int64) error
}

// CatalogManager covers brand/category administration including the
// explicit model cascade on deletes.
type CatalogManager interface {
	CreateBrand(ctx context.Context, name string) (*domain.Brand, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrand(ctx context.Context, id int64) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, id int64, name string) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, brandID int64, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, brandID int64) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ManualReader serves stored manual files and per-user listings.
type ManualReader interface {
	Open(ctx context.Context, manualID int64) (*domain.Manual, io.ReadCloser, error)
	ListByUploader(ctx context.Context, uploaderID int64) ([]domain.Manual, error)
	DeleteByModel(ctx context.Context, modelID int64, requester *domain.User) error
}
