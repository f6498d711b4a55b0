package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

type s3Storage struct {
	client *minio.Client
}

func NewS3Storage(cfg *config.StorageConfig) (Storage, error) {
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}

	creds := credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, "")
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	zlog.Logger.Info().
		Str("endpoint", cfg.S3Endpoint).
		Bool("ssl", cfg.S3UseSSL).
		Msg("s3 client initialized")

	return &s3Storage{client: client}, nil
}

func (s *s3Storage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("bucket", bucket).Str("object", key).Msg("failed to get object")
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			zlog.Logger.Error().Str("bucket", bucket).Str("object", key).Msg("object not found")
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrObjectNotFound, bucket, key)
		}
		zlog.Logger.Error().Err(err).Str("bucket", bucket).Str("object", key).Msg("failed to read object")
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}

	zlog.Logger.Debug().Str("bucket", bucket).Str("object", key).Int("size", len(data)).Msg("object read from s3")
	return data, nil
}

func (s *s3Storage) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("bucket", bucket).Str("object", key).Msg("failed to put object to s3")
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	zlog.Logger.Info().
		Str("bucket", bucket).
		Str("object", key).
		Int("bytes", len(data)).
		Msg("object saved to s3")
	return nil
}
