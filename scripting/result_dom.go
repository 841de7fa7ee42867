package scripting

import (
	"context"
	"fmt"

	"github.com/wudi/ocrkit/engine"
)

// NewResultDOM adapts res for script access. Text edits write through to res;
// confidences and geometry stay read-only.
func NewResultDOM(res *engine.Result) ResultDOM {
	return &resultDOM{res: res}
}

type resultDOM struct {
	res *engine.Result
}

func (d *resultDOM) GetText() string { return d.res.Text }

func (d *resultDOM) SetText(text string) { d.res.Text = text }

func (d *resultDOM) GetConfidence() float64 { return d.res.Confidence }

func (d *resultDOM) WordCount() int { return len(d.res.Words) }

func (d *resultDOM) GetWord(index int) (WordProxy, error) {
	if index < 0 || index >= len(d.res.Words) {
		return nil, fmt.Errorf("word index %d out of range [0,%d)", index, len(d.res.Words))
	}
	return &wordProxy{w: &d.res.Words[index]}, nil
}

type wordProxy struct {
	w *engine.Word
}

func (p *wordProxy) GetText() string { return p.w.Text }

func (p *wordProxy) SetText(text string) { p.w.Text = text }

func (p *wordProxy) GetConfidence() float64 { return p.w.Confidence }

// Apply runs script over res on a fresh engine. Each call gets its own VM:
// goja runtimes are not goroutine-safe and scripts must not observe state from
// earlier results.
func Apply(ctx context.Context, script string, res *engine.Result) error {
	eng := NewEngine()
	if err := eng.RegisterResult(NewResultDOM(res)); err != nil {
		return fmt.Errorf("register result: %w", err)
	}
	if _, err := eng.Execute(ctx, script); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}
