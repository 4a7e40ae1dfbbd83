package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// BucketService stores uploaded files (avatars, resumes) in object storage
// and hands back a public URL.
type BucketService interface {
	UploadFile(ctx context.Context, key, contentType string, file io.Reader) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

type bucketService struct {
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func NewBucketService(ctx context.Context, bucket, cdnDomain string) (BucketService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket name is not configured")
	}
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketService{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (s *bucketService) UploadFile(ctx context.Context, key, contentType string, file io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return "", fmt.Errorf("bucketService.UploadFile copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("bucketService.UploadFile close: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *bucketService) DeleteFile(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("bucketService.DeleteFile: %w", err)
	}
	return nil
}

func (s *bucketService) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}
