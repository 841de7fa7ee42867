package ocr

import (
	"context"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/scripting"
)

// WithScript installs a JavaScript post-processor. The script runs after
// every successful recognition with the result exposed as a global named
// result; edits to result.text and its words are written back before the
// result is returned to the caller.
func WithScript(script string) ServiceOption {
	return WithPostProcessor(func(ctx context.Context, res *engine.Result) error {
		return scripting.Apply(ctx, script, res)
	})
}
