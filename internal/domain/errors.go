package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord  = errors.New("malformed notification record")
	ErrFetchFailed      = errors.New("fetch source object failed")
	ErrDecodeFailed     = errors.New("decode source image failed")
	ErrEncodeFailed     = errors.New("encode derivative failed")
	ErrStoreFailed      = errors.New("store derivative failed")
	ErrDerivativeSource = errors.New("source object is already a derivative")
	ErrObjectNotFound   = errors.New("object not found")
	ErrInvalidQuality   = errors.New("quality must be within 0..100")
	ErrEmptyImage       = errors.New("image has no pixels")
)

// Step names the transcode sub-operation that failed.
type Step string

const (
	StepFetch  Step = "fetch"
	StepDecode Step = "decode"
	StepEncode Step = "encode"
	StepStore  Step = "store"
)

func (s Step) sentinel() error {
	switch s {
	case StepFetch:
		return ErrFetchFailed
	case StepDecode:
		return ErrDecodeFailed
	case StepEncode:
		return ErrEncodeFailed
	case StepStore:
		return ErrStoreFailed
	default:
		return nil
	}
}

// TranscodeError is the single error a record can fail with. errors.Is matches
// both the step sentinel (ErrFetchFailed, ...) and the wrapped cause.
type TranscodeError struct {
	Step   Step
	Record Record
	Err    error
}

func NewTranscodeError(step Step, rec Record, err error) *TranscodeError {
	return &TranscodeError{Step: step, Record: rec, Err: err}
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Step, e.Record.Container, e.Record.SourceKey, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

func (e *TranscodeError) Is(target error) bool {
	s := e.Step.sentinel()
	return s != nil && target == s
}

// StepOf reports the failed step of err, if err carries one.
func StepOf(err error) (Step, bool) {
	var te *TranscodeError
	if errors.As(err, &te) {
		return te.Step, true
	}
	return "", false
}
