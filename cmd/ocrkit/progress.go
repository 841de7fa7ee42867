package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/wudi/ocrkit/engine"
)

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressRenderer turns engine progress events into terminal feedback: a
// progress bar on a TTY, plain status lines otherwise.
type progressRenderer struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	out    io.Writer
	last   string
	prefix string
}

func newProgressRenderer() *progressRenderer {
	if !stderrIsTerminal() {
		return &progressRenderer{out: os.Stderr}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionClearOnFinish(),
	)
	return &progressRenderer{bar: bar}
}

// SetPrefix labels subsequent events, e.g. "page 2/3".
func (p *progressRenderer) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

func (p *progressRenderer) Update(ev engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	desc := ev.Status
	if p.prefix != "" {
		desc = p.prefix + ": " + ev.Status
	}
	if p.bar != nil {
		p.bar.Describe(desc)
		_ = p.bar.Set(int(ev.Progress * 100))
		return
	}
	// Off-terminal: one line per status change keeps logs readable.
	if desc != p.last {
		fmt.Fprintf(p.out, "%3.0f%% %s\n", ev.Progress*100, desc)
		p.last = desc
	}
}

func (p *progressRenderer) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
