package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

func NewS3Client(cfg S3Config) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return client, nil
}

// S3Store keeps images as objects in a single bucket. Objects are read by
// clients through PublicBaseURL, which fronts the bucket.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string

	mu      sync.Mutex
	ensured bool
}

func NewS3Store(client *minio.Client, cfg S3Config) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  strings.TrimSpace(cfg.Bucket),
		baseURL: strings.TrimSpace(cfg.PublicBaseURL),
	}
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	// Only success is remembered; a failed check is retried on the next call.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, err)
		}
	}

	s.ensured = true
	return nil
}

// EnsureBucket checks that the bucket exists, creating it if needed.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	return s.ensureBucket(ctx)
}

func (s *S3Store) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	if !validName(name) || body == nil || size <= 0 {
		return "", ErrInvalidImage
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object to s3: %w", err)
	}

	return joinURL(s.baseURL, name), nil
}

func (s *S3Store) Delete(ctx context.Context, publicURL string) error {
	name := nameFromURL(s.baseURL, publicURL)
	if s.client == nil || !validName(name) {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context) ([]StoredImage, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	var images []StoredImage
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		images = append(images, StoredImage{
			Name:       obj.Key,
			URL:        joinURL(s.baseURL, obj.Key),
			ModifiedAt: obj.LastModified,
		})
	}
	return images, nil
}
