package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

// S3API is the subset of *s3.Client used by awsStorage.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type awsStorage struct {
	client S3API
}

// NewAWSStorage builds a client from the default credential chain unless
// static keys are configured. S3Endpoint switches to path-style addressing for
// S3-compatible services.
func NewAWSStorage(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	zlog.Logger.Info().
		Str("region", awsCfg.Region).
		Str("endpoint", cfg.S3Endpoint).
		Msg("aws s3 client initialized")

	return NewAWSStorageWithClient(client), nil
}

func NewAWSStorageWithClient(client S3API) Storage {
	return &awsStorage{client: client}
}

func (s *awsStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			zlog.Logger.Error().Str("bucket", bucket).Str("object", key).Msg("object not found")
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrObjectNotFound, bucket, key)
		}
		zlog.Logger.Error().Err(err).Str("bucket", bucket).Str("object", key).Msg("failed to get object")
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func (s *awsStorage) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("bucket", bucket).Str("object", key).Msg("failed to put object")
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	zlog.Logger.Info().
		Str("bucket", bucket).
		Str("object", key).
		Int("bytes", len(data)).
		Msg("object saved to s3")
	return nil
}
