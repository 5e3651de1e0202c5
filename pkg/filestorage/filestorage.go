package filestorage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"inspection-system/pkg/config"
)

// FileStorageInterface persists opaque objects under a key and hands back a
// stable handle (a public URL or a server path) that resolves to them.
// Delete returns apperrors.ErrObjectMissing when nothing is stored at handle.
type FileStorageInterface interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (handle string, err error)
	Get(ctx context.Context, handle string) ([]byte, error)
	Delete(ctx context.Context, handle string) error
	Exists(ctx context.Context, handle string) (bool, error)
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (FileStorageInterface, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalFileStorage(cfg.LocalPath, cfg.PublicBaseURL)
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "minio":
		return NewMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("driver de armazenamento desconhecido: %q", cfg.Driver)
	}
}

func handleFor(publicBase, key string) string {
	return strings.TrimRight(publicBase, "/") + "/" + key
}

// KeyFromHandle recovers the object key from a handle. Handles issued by this
// process start with publicBase. Older handles are public bucket URLs of the
// form ".../public/<bucket>/<key>".
func KeyFromHandle(publicBase, bucket, handle string) (string, error) {
	if handle == "" {
		return "", fmt.Errorf("handle vazio")
	}
	base := strings.TrimRight(publicBase, "/") + "/"
	if publicBase != "" && strings.HasPrefix(handle, base) {
		return unescapeKey(strings.TrimPrefix(handle, base))
	}
	if bucket != "" {
		marker := "/public/" + bucket + "/"
		if idx := strings.Index(handle, marker); idx >= 0 {
			return unescapeKey(handle[idx+len(marker):])
		}
	}
	return "", fmt.Errorf("handle %q não pertence a este armazenamento", handle)
}

func unescapeKey(raw string) (string, error) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("handle inválido: %w", err)
	}
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("handle inválido: %q", raw)
	}
	return key, nil
}
