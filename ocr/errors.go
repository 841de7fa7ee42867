package ocr

import (
	"errors"
	"fmt"
)

// ErrNoPages is returned by RecognizeDocument for an empty page list: an
// average confidence over zero pages is undefined and must not leak out as a
// NaN.
var ErrNoPages = errors.New("ocr: document has no pages")

// InitError reports a failed engine initialization: the provider module could
// not load or the handle could not be constructed. The service resets to
// uninitialized when it occurs, so the next call retries cleanly.
type InitError struct {
	Language string
	Err      error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing engine for %q: %v", e.Language, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RecognitionError reports an engine failure during a recognition call. The
// underlying cause is preserved; nothing is retried.
type RecognitionError struct {
	Language string
	Err      error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognizing text (%s): %v", e.Language, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
