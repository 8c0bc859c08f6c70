// Package llm wraps the external generative services behind small
// interfaces. Everything above this package treats a generator as "a
// usable string/structure or an error" and keeps its own fallback; no
// caller may block on a generator without a deadline.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// TextOptions tune one text generation call.
type TextOptions struct {
	Temperature     float32
	MaxOutputTokens int32
	// JSONOutput requests an application/json response from the model.
	JSONOutput bool
}

// TextGenerator produces persona utterances, diary JSON and poems.
type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
	Close() error
}

// ImageData is raw image bytes plus their MIME type.
type ImageData struct {
	Bytes    []byte
	MIMEType string
}

// ImageGenerator produces illustrations and captions reference photos.
type ImageGenerator interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string, reference *ImageData) (*ImageData, error)
	Describe(ctx context.Context, image ImageData, prompt string) (string, error)
	Close() error
}

var (
	// ErrEmptyReply means the model answered with no usable content.
	// Treated exactly like a failed call by every caller.
	ErrEmptyReply = errors.New("llm: empty reply from model")
	// ErrNoImage means an image request settled without image bytes.
	ErrNoImage = errors.New("llm: no image in response")
)

// PermanentError marks a failure that retrying cannot fix (bad request,
// auth). Retry middleware stops on it immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err as a PermanentError. Returns nil for nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
