package domain

import (
	"context"
	"image"

	"github.com/aws/aws-lambda-go/events"
)

// BlobStore is shared read-only across records and workers; implementations
// must be safe for concurrent use.
type BlobStore interface {
	Get(ctx context.Context, container, key string) ([]byte, error)
	Put(ctx context.Context, container, key string, data []byte, contentType string) error
}

type ImageCodec interface {
	Decode(data []byte) (image.Image, error)
	Encode(img image.Image, quality int) ([]byte, error)
	ContentType() string
}

type TranscoderService interface {
	Transcode(ctx context.Context, rec Record) (string, error)
}

type BatchService interface {
	Process(ctx context.Context, payload []byte) (*BatchResult, error)
	ProcessEvent(ctx context.Context, evt events.S3Event) (*BatchResult, error)
}

type OutcomeReporter interface {
	Report(ctx context.Context, result *BatchResult) error
}
