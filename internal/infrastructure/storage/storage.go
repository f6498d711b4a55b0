package storage

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
	TypeAWS   = "aws"
)

// Storage addresses objects by (container, key). A container is a bucket for
// the object-store backends and a sub-directory for local storage.
type Storage = domain.BlobStore

func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case TypeLocal:
		zlog.Logger.Info().Msg("Initializing local storage")
		return NewLocalStorage(cfg)
	case TypeS3:
		zlog.Logger.Info().Msg("Initializing S3 storage (minio)")
		return NewS3Storage(cfg)
	case TypeAWS:
		zlog.Logger.Info().Msg("Initializing S3 storage (aws sdk)")
		return NewAWSStorage(ctx, cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local', 's3' or 'aws'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
