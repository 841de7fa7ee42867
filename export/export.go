// Package export renders recognition results into interchange formats: plain
// text, JSON, Markdown, HTML and hOCR.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/hocr"
	"github.com/wudi/ocrkit/ocr"
)

// Text writes the aggregated document text followed by a newline.
func Text(w io.Writer, doc *ocr.Document) error {
	_, err := io.WriteString(w, doc.FullText+"\n")
	return err
}

// JSON writes an indented JSON rendering of a *engine.Result, a result slice
// or a *ocr.Document. Durations are reported in milliseconds.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	switch t := v.(type) {
	case *engine.Result:
		return enc.Encode(newResultDTO(t))
	case []*engine.Result:
		dtos := make([]resultDTO, 0, len(t))
		for _, res := range t {
			dtos = append(dtos, newResultDTO(res))
		}
		return enc.Encode(dtos)
	case *ocr.Document:
		return enc.Encode(newDocumentDTO(t))
	default:
		return fmt.Errorf("export: unsupported type %T", v)
	}
}

type boxDTO struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

type wordDTO struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       boxDTO  `json:"bbox"`
}

type lineDTO struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	BBox       boxDTO    `json:"bbox"`
	Words      []wordDTO `json:"words,omitempty"`
}

type resultDTO struct {
	Text             string    `json:"text"`
	Confidence       float64   `json:"confidence"`
	Words            []wordDTO `json:"words,omitempty"`
	Lines            []lineDTO `json:"lines,omitempty"`
	ProcessingTimeMS int64     `json:"processingTimeMs"`
}

type documentDTO struct {
	Pages         []resultDTO `json:"pages"`
	FullText      string      `json:"fullText"`
	AvgConfidence float64     `json:"avgConfidence"`
	TotalTimeMS   int64       `json:"totalTimeMs"`
}

func newBoxDTO(b engine.Box) boxDTO {
	return boxDTO{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1}
}

func newWordDTOs(words []engine.Word) []wordDTO {
	if len(words) == 0 {
		return nil
	}
	out := make([]wordDTO, 0, len(words))
	for _, w := range words {
		out = append(out, wordDTO{Text: w.Text, Confidence: w.Confidence, BBox: newBoxDTO(w.Box)})
	}
	return out
}

func newResultDTO(res *engine.Result) resultDTO {
	dto := resultDTO{
		Text:             res.Text,
		Confidence:       res.Confidence,
		Words:            newWordDTOs(res.Words),
		ProcessingTimeMS: res.ProcessingTime.Milliseconds(),
	}
	for _, l := range res.Lines {
		dto.Lines = append(dto.Lines, lineDTO{
			Text:       l.Text,
			Confidence: l.Confidence,
			BBox:       newBoxDTO(l.Box),
			Words:      newWordDTOs(l.Words),
		})
	}
	return dto
}

func newDocumentDTO(doc *ocr.Document) documentDTO {
	dto := documentDTO{
		Pages:         make([]resultDTO, 0, len(doc.Pages)),
		FullText:      doc.FullText,
		AvgConfidence: doc.AvgConfidence,
		TotalTimeMS:   doc.TotalTime.Milliseconds(),
	}
	for _, p := range doc.Pages {
		dto.Pages = append(dto.Pages, newResultDTO(p))
	}
	return dto
}

// Markdown renders the document as a summary table followed by one section per
// page.
func Markdown(doc *ocr.Document) string {
	var b strings.Builder
	b.WriteString("# OCR Document\n\n")
	fmt.Fprintf(&b, "%d page(s), average confidence %.1f%%, total time %d ms\n\n",
		len(doc.Pages), doc.AvgConfidence, doc.TotalTime.Milliseconds())

	b.WriteString("| Page | Confidence | Words | Time (ms) |\n")
	b.WriteString("|-----:|-----------:|------:|----------:|\n")
	for i, p := range doc.Pages {
		fmt.Fprintf(&b, "| %d | %.1f%% | %d | %d |\n",
			i+1, p.Confidence, len(p.Words), p.ProcessingTime.Milliseconds())
	}

	for i, p := range doc.Pages {
		fmt.Fprintf(&b, "\n## Page %d\n\n", i+1)
		text := strings.TrimSpace(p.Text)
		if text == "" {
			text = "*(no text)*"
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// HTML writes the Markdown rendering converted to HTML via goldmark.
func HTML(w io.Writer, doc *ocr.Document) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(Markdown(doc)), w); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	return nil
}

// HOCR writes the result's layout as an hOCR document.
func HOCR(w io.Writer, res *engine.Result) error {
	page := &hocr.Page{Lines: res.Lines}
	if len(page.Lines) == 0 && len(res.Words) > 0 {
		line := engine.Line{Text: res.Text, Confidence: res.Confidence, Words: res.Words}
		for _, w := range res.Words {
			line.Box = line.Box.Union(w.Box)
		}
		page.Lines = []engine.Line{line}
	}
	for _, l := range page.Lines {
		page.Box = page.Box.Union(l.Box)
	}
	return hocr.Render(w, page)
}
