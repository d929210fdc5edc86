package ports

import (
	"context"
	"io"

	"github.com/mhcho/manualhub/internal/core/domain"
)

// ModelRepository persists catalog models. Create and Update surface
// domain.ErrDuplicateName when the unique name constraint rejects a write.
type ModelRepository interface {
	Create(ctx context.Context, m *domain.Model) error
	GetByID(ctx context.Context, id int64) (*domain.Model, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, m *domain.Model) error
	Delete(ctx context.Context, id int64) error
	ListPublic(ctx context.Context) ([]domain.Model, error)
	ListPublicByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Model, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Model, error)
	ListAll(ctx context.Context) ([]domain.Model, error)
}

// ManualRepository persists manual rows; the stored bytes live in the
// DocumentStore, only the key is kept here.
type ManualRepository interface {
	Create(ctx context.Context, m *domain.Manual) error
	GetByID(ctx context.Context, id int64) (*domain.Manual, error)
	GetByModelID(ctx context.Context, modelID int64) (*domain.Manual, error)
	ListByUploader(ctx context.Context, uploaderID int64) ([]domain.Manual, error)
	Update(ctx context.Context, m *domain.Manual) error
	Delete(ctx context.Context, id int64) error
}

type BrandRepository interface {
	Create(ctx context.Context, b *domain.Brand) error
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)
	List(ctx context.Context) ([]domain.Brand, error)
	Update(ctx context.Context, b *domain.Brand) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListByBrand(ctx context.Context, brandID int64) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// DocumentStore owns the manual bytes on disk. Delete of a missing key is
// not an error; Open resolves both bare keys and legacy full paths.
type DocumentStore interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ManualProcessor is the external ML service boundary. docName is the
// model name, the service's handle for the document.
type ManualProcessor interface {
	Submit(ctx context.Context, docName, filename string, file io.Reader) error
	Ask(ctx context.Context, docName, question string) (*domain.Answer, error)
}

// FileInspector validates an uploaded manual before any external call.
type FileInspector interface {
	Inspect(filename, contentType string, data []byte) error
}
