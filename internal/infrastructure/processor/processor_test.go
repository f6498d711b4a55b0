package processor_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/infrastructure/processor"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestWebPCodec_RoundTripKeepsDimensions(t *testing.T) {
	codec := processor.NewWebPCodec()
	sources := map[string][]byte{
		"png":  pngBytes(t, gradient(64, 48)),
		"jpeg": jpegBytes(t, gradient(33, 17)),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			img, err := codec.Decode(src)
			require.NoError(t, err)

			out, err := codec.Encode(img, processor.DefaultQuality)
			require.NoError(t, err)
			require.NotEmpty(t, out)

			again, err := codec.Decode(out)
			require.NoError(t, err)
			assert.Equal(t, img.Bounds().Size(), again.Bounds().Size())
		})
	}
}

func TestWebPCodec_QualityBoundaries(t *testing.T) {
	codec := processor.NewWebPCodec()
	img := gradient(40, 30)

	for _, q := range []int{0, 100} {
		out, err := codec.Encode(img, q)
		require.NoError(t, err, "quality %d", q)
		require.NotEmpty(t, out)

		decoded, err := xwebp.Decode(bytes.NewReader(out))
		require.NoError(t, err, "quality %d", q)
		assert.Equal(t, img.Bounds().Size(), decoded.Bounds().Size())
	}
}

func TestWebPCodec_RejectsQualityOutOfRange(t *testing.T) {
	codec := processor.NewWebPCodec()

	_, err := codec.Encode(gradient(4, 4), 101)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	_, err = codec.Encode(gradient(4, 4), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
}

func TestWebPCodec_DecodeGarbage(t *testing.T) {
	codec := processor.NewWebPCodec()

	_, err := codec.Decode([]byte("definitely not an image"))
	assert.Error(t, err)

	valid := pngBytes(t, gradient(16, 16))
	_, err = codec.Decode(valid[:len(valid)/2])
	assert.Error(t, err)
}

func TestWebPCodec_EncodeEmptyImage(t *testing.T) {
	codec := processor.NewWebPCodec()

	_, err := codec.Encode(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 75)
	assert.ErrorIs(t, err, domain.ErrEmptyImage)
}

func TestWebPCodec_ContentType(t *testing.T) {
	assert.Equal(t, "image/webp", processor.NewWebPCodec().ContentType())
}
