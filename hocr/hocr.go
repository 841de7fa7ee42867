// Package hocr reads and writes hOCR, the HTML-based standard format for
// structured OCR output (https://kba.github.io/hocr-spec/). Only the subset
// emitted by Tesseract is modeled: a page containing lines containing words,
// each carrying a bounding box and, for words, an x_wconf confidence. Parsing
// is lenient; unknown classes and properties are skipped rather than rejected.
package hocr

import (
	"strconv"
	"strings"

	"github.com/wudi/ocrkit/engine"
)

// Page is one recognized page: its pixel bounds and the text lines found on it.
type Page struct {
	Box   engine.Box
	Lines []engine.Line
}

// Words returns the page's words in reading order.
func (p *Page) Words() []engine.Word {
	var words []engine.Word
	for _, line := range p.Lines {
		words = append(words, line.Words...)
	}
	return words
}

// Text returns the page's plain text, one line per text line.
func (p *Page) Text() string {
	parts := make([]string, 0, len(p.Lines))
	for _, line := range p.Lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, "\n")
}

// parseProps splits an hOCR title attribute ("bbox 0 0 10 10; x_wconf 95")
// into its semicolon-separated properties, keyed by the leading word.
func parseProps(title string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		props[fields[0]] = strings.Join(fields[1:], " ")
	}
	return props
}

func parseBox(props map[string]string) (engine.Box, bool) {
	raw, ok := props["bbox"]
	if !ok {
		return engine.Box{}, false
	}
	fields := strings.Fields(raw)
	if len(fields) != 4 {
		return engine.Box{}, false
	}
	vals := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return engine.Box{}, false
		}
		vals[i] = v
	}
	return engine.Box{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, true
}

func parseWConf(props map[string]string) (float64, bool) {
	raw, ok := props["x_wconf"]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
