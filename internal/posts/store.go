package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

// ContentStore guarda os bytes das imagens fora do banco.
// Arquivo inexistente é reportado como errs.ErrNotFound.
type ContentStore interface {
	Save(ctx context.Context, name string, data []byte) (path string, err error)
	Open(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

// FSStore implementa ContentStore num diretório local
type FSStore struct {
	Root string
}

func NewFSStore(root string) *FSStore { return &FSStore{Root: root} }

// Save cria o diretório se preciso e grava via arquivo temporário + rename,
// então o arquivo final nunca fica parcialmente escrito
func (s *FSStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod image: %w", err)
	}

	path := filepath.Join(s.Root, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename image: %w", err)
	}
	return path, nil
}

func (s *FSStore) Open(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.Root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrNotFound
	}
	return b, err
}

func (s *FSStore) Remove(_ context.Context, path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errs.ErrNotFound
	}
	return err
}
