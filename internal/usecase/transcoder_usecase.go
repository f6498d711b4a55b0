package usecase

import (
	"context"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/derivative"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

// TranscoderUsecase runs fetch, decode, encode and store for one record. The
// first failing step ends the record; nothing is written before store.
type TranscoderUsecase struct {
	storage domain.BlobStore
	codec   domain.ImageCodec
	keys    derivative.KeyPolicy
	quality int
}

func NewTranscoderUsecase(
	storage domain.BlobStore,
	codec domain.ImageCodec,
	keys derivative.KeyPolicy,
	quality int,
) *TranscoderUsecase {
	return &TranscoderUsecase{
		storage: storage,
		codec:   codec,
		keys:    keys,
		quality: quality,
	}
}

// Transcode returns the derived key on success and a *domain.TranscodeError
// otherwise.
func (u *TranscoderUsecase) Transcode(ctx context.Context, rec domain.Record) (string, error) {
	data, err := u.storage.Get(ctx, rec.Container, rec.SourceKey)
	if err != nil {
		return "", domain.NewTranscodeError(domain.StepFetch, rec, err)
	}

	img, err := u.codec.Decode(data)
	if err != nil {
		return "", domain.NewTranscodeError(domain.StepDecode, rec, err)
	}
	zlog.Logger.Debug().
		Str("container", rec.Container).
		Str("key", rec.SourceKey).
		Int("source_bytes", len(data)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("source image decoded")

	encoded, err := u.codec.Encode(img, u.quality)
	if err != nil {
		return "", domain.NewTranscodeError(domain.StepEncode, rec, err)
	}

	derivedKey := u.keys.Derive(rec.SourceKey)
	if err := u.storage.Put(ctx, rec.Container, derivedKey, encoded, u.codec.ContentType()); err != nil {
		return "", domain.NewTranscodeError(domain.StepStore, rec, err)
	}

	zlog.Logger.Info().
		Str("container", rec.Container).
		Str("key", rec.SourceKey).
		Str("derived_key", derivedKey).
		Int("source_bytes", len(data)).
		Int("derived_bytes", len(encoded)).
		Int("quality", u.quality).
		Msg("derivative stored")

	return derivedKey, nil
}
