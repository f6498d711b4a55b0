package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/infrastructure/storage"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestAWSStorage_Get(t *testing.T) {
	client := new(mockS3)
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "media" && aws.ToString(in.Key) == "uploads/a.png"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("png")))}, nil)

	s := storage.NewAWSStorageWithClient(client)
	got, err := s.Get(context.Background(), "media", "uploads/a.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
	client.AssertExpectations(t)
}

func TestAWSStorage_GetNotFound(t *testing.T) {
	client := new(mockS3)
	client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, err := storage.NewAWSStorageWithClient(client).Get(context.Background(), "media", "missing.png")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestAWSStorage_PutSetsContentType(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "media" &&
			aws.ToString(in.Key) == "optimized/a.png.webp" &&
			aws.ToString(in.ContentType) == "image/webp" &&
			aws.ToInt64(in.ContentLength) == 4
	})).Return(&s3.PutObjectOutput{}, nil)

	err := storage.NewAWSStorageWithClient(client).
		Put(context.Background(), "media", "optimized/a.png.webp", []byte("webp"), "image/webp")

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestAWSStorage_PutError(t *testing.T) {
	client := new(mockS3)
	boom := errors.New("access denied")
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, boom)

	err := storage.NewAWSStorageWithClient(client).Put(context.Background(), "media", "k", []byte("x"), "image/webp")
	assert.ErrorIs(t, err, boom)
}
