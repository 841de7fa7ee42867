package hocr

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/wudi/ocrkit/engine"
)

// Line-level hOCR classes Tesseract emits. Headers, captions and floats are
// lines for our purposes; the distinction only matters to layout consumers.
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
}

// Parse reads an hOCR document and returns its first page. Documents without
// an ocr_page element yield an empty page rather than an error; Tesseract
// always emits one.
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	page := &Page{}
	walk(doc, page)
	return page, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

func walk(n *html.Node, page *Page) {
	if n.Type == html.ElementNode {
		class := attr(n, "class")
		switch {
		case class == "ocr_page":
			if box, ok := parseBox(parseProps(attr(n, "title"))); ok {
				page.Box = box
			}
		case lineClasses[class]:
			if line, ok := parseLine(n); ok {
				page.Lines = append(page.Lines, line)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, page)
	}
}

func parseLine(n *html.Node) (engine.Line, bool) {
	line := engine.Line{}
	if box, ok := parseBox(parseProps(attr(n, "title"))); ok {
		line.Box = box
	}
	collectWords(n, &line)
	if len(line.Words) == 0 {
		return engine.Line{}, false
	}

	texts := make([]string, 0, len(line.Words))
	var confSum float64
	for _, w := range line.Words {
		texts = append(texts, w.Text)
		confSum += w.Confidence
	}
	line.Text = strings.Join(texts, " ")
	line.Confidence = confSum / float64(len(line.Words))
	if line.Box.Empty() {
		for _, w := range line.Words {
			line.Box = line.Box.Union(w.Box)
		}
	}
	return line, true
}

func collectWords(n *html.Node, line *engine.Line) {
	if n.Type == html.ElementNode && attr(n, "class") == "ocrx_word" {
		text := strings.TrimSpace(textContent(n))
		if text != "" {
			props := parseProps(attr(n, "title"))
			word := engine.Word{Text: text}
			if box, ok := parseBox(props); ok {
				word.Box = box
			}
			if conf, ok := parseWConf(props); ok {
				word.Confidence = conf
			}
			line.Words = append(line.Words, word)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c, line)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
