package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "inspection-system/pkg/errors"
)

// LocalFileStorage keeps objects on disk under basePath. The HTTP server
// exposes basePath at publicBase, so handles are plain server paths.
type LocalFileStorage struct {
	basePath   string
	publicBase string
}

func NewLocalFileStorage(basePath, publicBase string) (*LocalFileStorage, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("não foi possível criar o diretório de armazenamento: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath, publicBase: publicBase}, nil
}

func (s *LocalFileStorage) BasePath() string { return s.basePath }

func (s *LocalFileStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	// write then rename so a reader never sees a half-written file
	tmp := fullPath + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return handleFor(s.publicBase, key), nil
}

func (s *LocalFileStorage) Get(ctx context.Context, handle string) ([]byte, error) {
	fullPath, err := s.pathFor(handle)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.ErrObjectMissing
	}
	return data, err
}

func (s *LocalFileStorage) Delete(ctx context.Context, handle string) error {
	fullPath, err := s.pathFor(handle)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return apperrors.ErrObjectMissing
	}
	return err
}

func (s *LocalFileStorage) Exists(ctx context.Context, handle string) (bool, error) {
	fullPath, err := s.pathFor(handle)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalFileStorage) pathFor(handle string) (string, error) {
	key, err := KeyFromHandle(s.publicBase, "", handle)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(key)), nil
}
