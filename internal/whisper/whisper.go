package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Transcriber interface for speech-to-text
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}

// Request is one audio upload
type Request struct {
	Language string // two-letter code, e.g. "pl"
	APIKey   string
	FileName string
	Audio    io.Reader
}

var (
	ErrRequest    = errors.New("transcription request failed")
	ErrHTTPStatus = errors.New("transcription service returned an error status")
	ErrDecode     = errors.New("could not decode transcription response")
)

// StatusError is a non-2xx answer from the transcription service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", ErrHTTPStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}
