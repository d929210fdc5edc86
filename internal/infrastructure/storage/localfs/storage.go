package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhcho/manualhub/internal/core/domain"
)

// Storage keeps manual files in a flat directory, one file per storage key.
// Keys recorded by earlier deployments may be absolute paths; resolve treats
// any key containing a separator as a full path and uses it verbatim.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/manuals"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	f, err := os.Create(filepath.Join(s.basePath, key))
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "create manual file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return domain.WrapError(domain.ErrStorage, "write manual file", err)
	}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(key))
	if err != nil {
		return nil, domain.WrapError(domain.ErrNotReadable, "open manual file", err)
	}
	return f, nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	err := os.Remove(s.resolve(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.WrapError(domain.ErrStorage, "delete manual file", err)
	}
	return nil
}

func (s *Storage) resolve(key string) string {
	if strings.ContainsRune(key, os.PathSeparator) || strings.ContainsRune(key, '/') {
		return key
	}
	return filepath.Join(s.basePath, key)
}
