package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"quick-video-scribe/internal/models"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	// URLExpiry is the lifetime of the presigned GET URL returned by Put.
	URLExpiry time.Duration
}

// Store uploads assets to a MinIO (or S3-compatible) bucket.
type Store struct {
	client *minio.Client
	cfg    Config
	logger *zap.Logger

	mu          sync.Mutex
	bucketReady bool
}

func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.URLExpiry == 0 {
		cfg.URLExpiry = 24 * time.Hour
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:     cfg.UseSSL,
		Region:     cfg.Region,
		MaxRetries: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Store{client: client, cfg: cfg, logger: logger}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info("bucket created", zap.String("bucket", s.cfg.Bucket))
	}
	s.bucketReady = true
	return nil
}

// Put uploads data and returns a presigned GET URL for it.
func (s *Store) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", models.NewExternalError("minio", "put", err)
	}

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", models.NewExternalError("minio", "put", err)
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, path, s.cfg.URLExpiry, make(url.Values))
	if err != nil {
		return "", models.NewExternalError("minio", "presign", err)
	}
	return presigned.String(), nil
}
