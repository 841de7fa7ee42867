// Package tesseract backs the engine interfaces with the native Tesseract
// library via gosseract. It requires Tesseract to be installed on the system.
// On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install -y tesseract-ocr libtesseract-dev
//
// Importing the package registers it as the default provider.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/hocr"
	"github.com/wudi/ocrkit/preprocess"
)

func init() {
	engine.SetDefault(NewProvider())
}

const pageSegModeKey = "tessedit_pageseg_mode"

// Provider drives Tesseract through gosseract clients.
type Provider struct {
	clientFactory func() *gosseract.Client
}

// NewProvider constructs a Tesseract-backed provider.
func NewProvider() *Provider {
	return &Provider{clientFactory: gosseract.NewClient}
}

func (p *Provider) Name() string { return "tesseract" }

// Check reports whether Tesseract is installed. It inspects the host only and
// never touches the native library.
func (p *Provider) Check() error {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return fmt.Errorf("tesseract not installed: %w", err)
	}
	return nil
}

// Load brings up the native library once by constructing and discarding a
// throwaway client. Callers memoize the outcome; Load itself keeps no state.
func (p *Provider) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := p.clientFactory()
	defer c.Close()
	if c.Version() == "" {
		return errors.New("tesseract library reports no version")
	}
	return nil
}

// Version returns the linked Tesseract version.
func (p *Provider) Version() string {
	c := p.clientFactory()
	defer c.Close()
	return c.Version()
}

// Languages lists the traineddata files Tesseract can currently load.
func (p *Provider) Languages() ([]string, error) {
	return gosseract.GetAvailableLanguages()
}

// Open builds a client configured for cfg and wraps it in a Handle. The
// client is torn down again if any configuration step fails.
func (p *Provider) Open(ctx context.Context, cfg engine.Config) (engine.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := p.clientFactory()
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	if cfg.DataDir != "" {
		if err := c.SetTessdataPrefix(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if cfg.Language != "" {
		if err := c.SetLanguage(strings.Split(cfg.Language, "+")...); err != nil {
			return nil, fmt.Errorf("set language %q: %w", cfg.Language, err)
		}
	}
	for k, v := range cfg.Variables {
		if k == pageSegModeKey {
			mode, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("page segmentation mode %q: %w", v, err)
			}
			if err := c.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
				return nil, fmt.Errorf("set page segmentation mode: %w", err)
			}
			continue
		}
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	ok = true
	return &handle{client: c, lang: cfg.Language, progress: cfg.Progress}, nil
}

// handle owns one gosseract client. Clients are not goroutine-safe, so every
// method runs under the handle mutex.
type handle struct {
	mu       sync.Mutex
	client   *gosseract.Client
	lang     string
	progress engine.ProgressFunc
	closed   bool
}

func (h *handle) Language() string { return h.lang }

func (h *handle) report(status string, progress float64) {
	if h.progress != nil {
		h.progress(engine.Event{Status: status, Progress: progress})
	}
}

func (h *handle) Recognize(ctx context.Context, src engine.Source) (*engine.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, engine.ErrHandleClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.report("loading image", 0)
	if err := h.setImage(src); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.report("recognizing text", 0.3)
	text, err := h.client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.report("extracting words", 0.8)
	words, lines := h.extractLayout()

	h.report("done", 1)
	return &engine.Result{
		Text:       strings.TrimSpace(text),
		Confidence: meanConfidence(words),
		Words:      words,
		Lines:      lines,
	}, nil
}

func (h *handle) setImage(src engine.Source) error {
	switch src.Kind() {
	case engine.SourceBytes:
		if err := h.client.SetImageFromBytes(src.Bytes()); err != nil {
			return fmt.Errorf("set image: %w", err)
		}
	case engine.SourceImage:
		data, err := preprocess.EncodePNG(src.Image())
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		if err := h.client.SetImageFromBytes(data); err != nil {
			return fmt.Errorf("set image: %w", err)
		}
	case engine.SourcePath:
		if err := h.client.SetImage(src.Path()); err != nil {
			return fmt.Errorf("set image %s: %w", src.Path(), err)
		}
	default:
		return errors.New("source holds no image data")
	}
	return nil
}

// extractLayout reads word and line structure from the hOCR rendering of the
// last recognition. When hOCR is unavailable it degrades to bare word boxes.
func (h *handle) extractLayout() ([]engine.Word, []engine.Line) {
	if doc, err := h.client.HOCRText(); err == nil {
		if page, err := hocr.ParseString(doc); err == nil && len(page.Lines) > 0 {
			return page.Words(), page.Lines
		}
	}

	boxes, err := h.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, nil
	}
	words := make([]engine.Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, engine.Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			Box: engine.Box{
				X0: b.Box.Min.X,
				Y0: b.Box.Min.Y,
				X1: b.Box.Max.X,
				Y1: b.Box.Max.Y,
			},
		})
	}
	return words, nil
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.client.Close(); err != nil {
		return fmt.Errorf("close tesseract client: %w", err)
	}
	return nil
}

func meanConfidence(words []engine.Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	return sum / float64(len(words))
}
