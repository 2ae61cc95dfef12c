package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

// MinioStore keeps blobs as objects in one bucket, keyed by scope prefix.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(ctx context.Context, client *minio.Client, bucket string) (*MinioStore, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

func (s *MinioStore) key(scope Scope, storedName string) string {
	return path.Join(scope.prefix(), storedName)
}

func (s *MinioStore) Put(ctx context.Context, scope Scope, suggestedName string, data []byte) (string, error) {
	name := StoredName(suggestedName)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.key(scope, name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *MinioStore) Get(ctx context.Context, scope Scope, storedName string) ([]byte, error) {
	if !validStoredName(storedName) {
		return nil, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key(scope, storedName), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, scope Scope, storedName string) error {
	if !validStoredName(storedName) {
		return ErrNotFound
	}
	return s.client.RemoveObject(ctx, s.bucket, s.key(scope, storedName), minio.RemoveObjectOptions{})
}
