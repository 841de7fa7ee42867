package engine

import (
	"context"
	"errors"
)

// ErrHandleClosed is returned when a Handle is used after Close.
var ErrHandleClosed = errors.New("engine: handle is closed")

// Handle is a live engine instance bound to one language. Handles are owned by
// whoever opened them and are not safe for concurrent use; a single handle must
// never serve two recognitions at once.
type Handle interface {
	// Language returns the language spec the handle was opened with.
	Language() string

	// Recognize runs the engine over one image. The returned Result's
	// ProcessingTime is left zero; the dispatch layer stamps it.
	Recognize(ctx context.Context, src Source) (*Result, error)

	// Close releases the engine instance. Safe to call more than once.
	Close() error
}

// Provider creates handles for one engine implementation.
type Provider interface {
	// Name identifies the provider ("tesseract", "fake", ...).
	Name() string

	// Check reports whether the host can run this engine. It is pure: no
	// state is created or modified.
	Check() error

	// Load performs one-time engine initialization (locating the native
	// library, warming shared state). It must be safe to call repeatedly;
	// memoizing it is the caller's responsibility so that a failed load can
	// be retried cleanly.
	Load(ctx context.Context) error

	// Open constructs a handle bound to cfg.Language. The handle's progress
	// sink, data directory and variables are fixed at construction.
	Open(ctx context.Context, cfg Config) (Handle, error)
}
