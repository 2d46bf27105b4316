package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinioStore keeps documents as objects in a single bucket of an
// S3-compatible object store. It satisfies the same contract as LocalStore.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioConfig holds the connection settings for an S3-compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// NewMinioStore connects to the endpoint and ensures the bucket exists,
// creating it if necessary.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store %q: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}

func (s *MinioStore) Save(ctx context.Context, content []byte, filename string) (string, error) {
	name, err := baseName(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, filename)
	}
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", fmt.Errorf("saving document %q: %w", filename, err)
	}
	return name, nil
}

func (s *MinioStore) Get(ctx context.Context, filename string) ([]byte, error) {
	name, err := baseName(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, filename)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", filename, err)
	}
	defer obj.Close()

	// GetObject defers most errors until the first read.
	content, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("reading document %q: %w", filename, err)
	}
	return content, nil
}

func (s *MinioStore) Reference(ctx context.Context, filename string) (string, error) {
	name, err := baseName(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, filename)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, filename)
		}
		return "", fmt.Errorf("checking document %q: %w", filename, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}

func (s *MinioStore) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing bucket %q: %w", s.bucket, obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (s *MinioStore) Exists(ctx context.Context, filename string) bool {
	name, err := baseName(filename)
	if err != nil {
		return false
	}
	_, err = s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	return err == nil
}

func (s *MinioStore) Delete(ctx context.Context, filename string) bool {
	name, err := baseName(filename)
	if err != nil {
		return false
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if !isNoSuchKey(err) {
			logrus.WithError(err).WithField("filename", filename).Warn("failed to check document before delete")
		}
		return false
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		logrus.WithError(err).WithField("filename", filename).Warn("failed to delete document")
		return false
	}
	return true
}
