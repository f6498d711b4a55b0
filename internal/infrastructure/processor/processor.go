package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
	xwebp "golang.org/x/image/webp"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

const (
	DefaultQuality  = 75
	WebPContentType = "image/webp"
)

// WebPCodec decodes any format imaging understands and encodes lossy WebP.
type WebPCodec struct{}

func NewWebPCodec() *WebPCodec {
	return &WebPCodec{}
}

func (c *WebPCodec) ContentType() string {
	return WebPContentType
}

func (c *WebPCodec) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, domain.ErrEmptyImage
	}
	w, h := dimensions(img)
	zlog.Logger.Debug().
		Int("width", w).
		Int("height", h).
		Msg("image decoded")
	return img, nil
}

func (c *WebPCodec) Encode(img image.Image, quality int) ([]byte, error) {
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuality, quality)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, domain.ErrEmptyImage
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("encode webp: empty buffer after encoding")
	}

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("verify webp: %w", err)
	}
	if w, h := dimensions(img); cfg.Width != w || cfg.Height != h {
		return nil, fmt.Errorf("verify webp: got %dx%d, want %dx%d", cfg.Width, cfg.Height, w, h)
	}

	zlog.Logger.Debug().
		Int("quality", quality).
		Int("bytes", buf.Len()).
		Msg("image encoded to webp")
	return buf.Bytes(), nil
}

func dimensions(img image.Image) (width, height int) {
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}
