package usecase_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yokitheyo/webpoptimizer/internal/derivative"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/usecase"
)

var (
	rec     = domain.Record{Container: "media", SourceKey: "uploads/2024/photo.png"}
	srcData = []byte("png-bytes")
	pixels  = image.NewNRGBA(image.Rect(0, 0, 8, 6))
	encoded = []byte("webp-bytes")
)

func newTranscoder(store *MockBlobStore, codec *MockImageCodec) *usecase.TranscoderUsecase {
	return usecase.NewTranscoderUsecase(store, codec, derivative.NewKeyPolicy("", ""), 75)
}

func TestTranscode_Success(t *testing.T) {
	store, codec := new(MockBlobStore), new(MockImageCodec)
	store.On("Get", mock.Anything, "media", "uploads/2024/photo.png").Return(srcData, nil)
	codec.On("Decode", srcData).Return(pixels, nil)
	codec.On("Encode", pixels, 75).Return(encoded, nil)
	store.On("Put", mock.Anything, "media", "optimized/photo.png.webp", encoded, "image/webp").Return(nil)

	key, err := newTranscoder(store, codec).Transcode(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, "optimized/photo.png.webp", key)
	store.AssertExpectations(t)
	codec.AssertExpectations(t)
}

func TestTranscode_StepFailures(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		setup    func(store *MockBlobStore, codec *MockImageCodec)
		step     domain.Step
		sentinel error
	}{
		{
			name: "fetch",
			setup: func(store *MockBlobStore, codec *MockImageCodec) {
				store.On("Get", mock.Anything, "media", rec.SourceKey).Return(nil, cause)
			},
			step:     domain.StepFetch,
			sentinel: domain.ErrFetchFailed,
		},
		{
			name: "decode",
			setup: func(store *MockBlobStore, codec *MockImageCodec) {
				store.On("Get", mock.Anything, "media", rec.SourceKey).Return(srcData, nil)
				codec.On("Decode", srcData).Return(nil, cause)
			},
			step:     domain.StepDecode,
			sentinel: domain.ErrDecodeFailed,
		},
		{
			name: "encode",
			setup: func(store *MockBlobStore, codec *MockImageCodec) {
				store.On("Get", mock.Anything, "media", rec.SourceKey).Return(srcData, nil)
				codec.On("Decode", srcData).Return(pixels, nil)
				codec.On("Encode", pixels, 75).Return(nil, cause)
			},
			step:     domain.StepEncode,
			sentinel: domain.ErrEncodeFailed,
		},
		{
			name: "store",
			setup: func(store *MockBlobStore, codec *MockImageCodec) {
				store.On("Get", mock.Anything, "media", rec.SourceKey).Return(srcData, nil)
				codec.On("Decode", srcData).Return(pixels, nil)
				codec.On("Encode", pixels, 75).Return(encoded, nil)
				store.On("Put", mock.Anything, "media", "optimized/photo.png.webp", encoded, "image/webp").Return(cause)
			},
			step:     domain.StepStore,
			sentinel: domain.ErrStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, codec := new(MockBlobStore), new(MockImageCodec)
			tt.setup(store, codec)

			key, err := newTranscoder(store, codec).Transcode(context.Background(), rec)

			require.Error(t, err)
			assert.Empty(t, key)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, cause)

			step, ok := domain.StepOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.step, step)

			var te *domain.TranscodeError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, rec, te.Record)

			store.AssertExpectations(t)
			codec.AssertExpectations(t)
			if tt.step != domain.StepStore {
				store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTranscode_UsesConfiguredQuality(t *testing.T) {
	store, codec := new(MockBlobStore), new(MockImageCodec)
	store.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(srcData, nil)
	codec.On("Decode", srcData).Return(pixels, nil)
	codec.On("Encode", pixels, 100).Return(encoded, nil)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tr := usecase.NewTranscoderUsecase(store, codec, derivative.NewKeyPolicy("", ""), 100)
	_, err := tr.Transcode(context.Background(), rec)

	require.NoError(t, err)
	codec.AssertCalled(t, "Encode", pixels, 100)
}
