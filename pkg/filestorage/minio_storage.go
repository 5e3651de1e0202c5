package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"inspection-system/pkg/config"
	apperrors "inspection-system/pkg/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente MinIO: %w", err)
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, publicBase: cfg.PublicBaseURL}, nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("falha no upload para o MinIO: %w", err)
	}
	return handleFor(s.publicBase, key), nil
}

func (s *MinioStorage) Get(ctx context.Context, handle string) ([]byte, error) {
	key, err := KeyFromHandle(s.publicBase, s.bucket, handle)
	if err != nil {
		return nil, err
	}
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if isMinioNotFound(err) {
			return nil, apperrors.ErrObjectMissing
		}
		return nil, err
	}
	return data, nil
}

func (s *MinioStorage) Delete(ctx context.Context, handle string) error {
	key, err := KeyFromHandle(s.publicBase, s.bucket, handle)
	if err != nil {
		return err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return apperrors.ErrObjectMissing
		}
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStorage) Exists(ctx context.Context, handle string) (bool, error) {
	key, err := KeyFromHandle(s.publicBase, s.bucket, handle)
	if err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isMinioNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
