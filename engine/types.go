package engine

import "time"

// Box is a rectangle in source-image pixel coordinates with the origin in the
// upper-left corner. X1/Y1 are exclusive.
type Box struct {
	X0, Y0, X1, Y1 int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Y1 - b.Y0 }

// Empty reports whether the box has non-positive extent.
func (b Box) Empty() bool { return b.X1 <= b.X0 || b.Y1 <= b.Y0 }

// Union returns the smallest box covering both b and o. An empty operand does
// not grow the result.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	if o.X0 < b.X0 {
		b.X0 = o.X0
	}
	if o.Y0 < b.Y0 {
		b.Y0 = o.Y0
	}
	if o.X1 > b.X1 {
		b.X1 = o.X1
	}
	if o.Y1 > b.Y1 {
		b.Y1 = o.Y1
	}
	return b
}

// Word is a single recognized token.
type Word struct {
	Text       string
	Confidence float64
	Box        Box
}

// Line groups words that share a baseline.
type Line struct {
	Text       string
	Confidence float64
	Box        Box
	Words      []Word
}

// Result captures the output of one recognition call. Confidence is the mean
// word confidence on a 0-100 scale. ProcessingTime spans from dispatch entry to
// result availability, including any engine initialization the call triggered.
type Result struct {
	Text           string
	Confidence     float64
	Words          []Word
	Lines          []Line
	ProcessingTime time.Duration
}

// Event reports recognition progress. Progress is a fraction in [0, 1] and is
// monotonic for the handle that emits it; fractions from distinct handles are
// not comparable.
type Event struct {
	Status   string
	Progress float64
}

// ProgressFunc receives progress events for the call it was registered with.
// Implementations must be cheap; they run on the recognition path.
type ProgressFunc func(Event)

// Config carries per-handle construction parameters. Language is the handle's
// immutable binding; switching languages means opening a new handle. Progress,
// when set, receives every event the handle emits for its lifetime. Variables
// passes engine-specific knobs (e.g. "tessedit_char_whitelist" for Tesseract)
// without hard-coding them into the API surface.
type Config struct {
	Language  string
	Progress  ProgressFunc
	DataDir   string
	Variables map[string]string
}
