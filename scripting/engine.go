// Package scripting runs user-supplied scripts over recognition results.
// Recognized text routinely needs deployment-specific cleanup (stray
// characters, digit/letter confusions, whitespace rules); scripts keep those
// rules out of the library.
package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script against whatever result was registered.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterResult exposes a recognition result to the engine.
	RegisterResult(res ResultDOM) error
}

// ResultDOM exposes one recognition result to scripts. It provides a safe,
// controlled API: scripts read everything and may rewrite text, but cannot
// touch geometry or timing.
type ResultDOM interface {
	// GetText returns the full recognized text.
	GetText() string

	// SetText replaces the full recognized text.
	SetText(text string)

	// GetConfidence returns the mean word confidence (0-100).
	GetConfidence() float64

	// WordCount returns the number of recognized words.
	WordCount() int

	// GetWord returns a word by index (0-based).
	GetWord(index int) (WordProxy, error)
}

// WordProxy represents a recognized word exposed to scripts.
type WordProxy interface {
	GetText() string
	SetText(text string)
	GetConfidence() float64
}
