package usecase_test

import (
	"context"
	"image"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Get(ctx context.Context, container, key string) ([]byte, error) {
	args := m.Called(ctx, container, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockBlobStore) Put(ctx context.Context, container, key string, data []byte, contentType string) error {
	args := m.Called(ctx, container, key, data, contentType)
	return args.Error(0)
}

type MockImageCodec struct {
	mock.Mock
}

func (m *MockImageCodec) Decode(data []byte) (image.Image, error) {
	args := m.Called(data)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

func (m *MockImageCodec) Encode(img image.Image, quality int) ([]byte, error) {
	args := m.Called(img, quality)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockImageCodec) ContentType() string {
	return "image/webp"
}

type MockTranscoder struct {
	mock.Mock
}

func (m *MockTranscoder) Transcode(ctx context.Context, rec domain.Record) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

// recordingReporter keeps every reported batch.
type recordingReporter struct {
	mu      sync.Mutex
	batches []*domain.BatchResult
	err     error
}

func (r *recordingReporter) Report(_ context.Context, result *domain.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, result)
	return r.err
}
