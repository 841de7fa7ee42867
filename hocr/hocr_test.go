package hocr

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/wudi/ocrkit/engine"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0'/>
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "in.png"; bbox 0 0 640 480; ppageno 0'>
   <div class='ocr_carea' id='block_1_1' title="bbox 12 10 300 60">
    <p class='ocr_par' id='par_1_1' lang='eng' title="bbox 12 10 300 60">
     <span class='ocr_line' id='line_1_1' title="bbox 12 10 300 34; baseline 0 -4; x_size 22">
      <span class='ocrx_word' id='word_1_1' title='bbox 12 10 120 34; x_wconf 96'>Hello</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 130 10 300 34; x_wconf 92'>World</span>
     </span>
     <span class='ocr_line' id='line_1_2' title="bbox 12 40 260 60">
      <span class='ocrx_word' id='word_1_3' title='bbox 12 40 260 60; x_wconf 88'>again</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParse(t *testing.T) {
	page, err := ParseString(sampleHOCR)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if want := (engine.Box{X0: 0, Y0: 0, X1: 640, Y1: 480}); page.Box != want {
		t.Errorf("page box = %+v, want %+v", page.Box, want)
	}
	if len(page.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(page.Lines))
	}

	first := page.Lines[0]
	if first.Text != "Hello World" {
		t.Errorf("line text = %q, want %q", first.Text, "Hello World")
	}
	if len(first.Words) != 2 {
		t.Fatalf("got %d words in first line, want 2", len(first.Words))
	}
	if first.Words[0].Text != "Hello" || first.Words[1].Text != "World" {
		t.Errorf("words = %q, %q", first.Words[0].Text, first.Words[1].Text)
	}
	if want := (engine.Box{X0: 12, Y0: 10, X1: 120, Y1: 34}); first.Words[0].Box != want {
		t.Errorf("word box = %+v, want %+v", first.Words[0].Box, want)
	}
	if first.Words[0].Confidence != 96 {
		t.Errorf("word confidence = %v, want 96", first.Words[0].Confidence)
	}
	if math.Abs(first.Confidence-94) > 1e-9 {
		t.Errorf("line confidence = %v, want 94", first.Confidence)
	}
	if want := (engine.Box{X0: 12, Y0: 10, X1: 300, Y1: 34}); first.Box != want {
		t.Errorf("line box = %+v, want %+v", first.Box, want)
	}

	if got := page.Lines[1].Text; got != "again" {
		t.Errorf("second line text = %q, want %q", got, "again")
	}
}

func TestParseMissingTitle(t *testing.T) {
	const doc = `<html><body>
<div class='ocr_page' id='page_1'>
<span class='ocr_line' id='line_1_1'>
<span class='ocrx_word' id='word_1_1'>bare</span>
</span>
</div></body></html>`

	page, err := ParseString(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(page.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(page.Lines))
	}
	word := page.Lines[0].Words[0]
	if word.Text != "bare" {
		t.Errorf("word text = %q, want %q", word.Text, "bare")
	}
	if !word.Box.Empty() {
		t.Errorf("word box = %+v, want empty", word.Box)
	}
	if word.Confidence != 0 {
		t.Errorf("word confidence = %v, want 0", word.Confidence)
	}
}

func TestParseSkipsEmptyWords(t *testing.T) {
	const doc = `<html><body>
<div class='ocr_page' id='page_1' title='bbox 0 0 100 50'>
<span class='ocr_line' id='line_1_1' title='bbox 0 0 100 20'>
<span class='ocrx_word' id='word_1_1' title='bbox 0 0 40 20; x_wconf 70'>ok</span>
<span class='ocrx_word' id='word_1_2' title='bbox 50 0 90 20; x_wconf 10'>  </span>
</span>
<span class='ocr_line' id='line_1_2' title='bbox 0 30 100 50'>
<span class='ocrx_word' id='word_1_3' title='bbox 0 30 10 50'> </span>
</span>
</div></body></html>`

	page, err := ParseString(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(page.Lines) != 1 {
		t.Fatalf("got %d lines, want 1 (whitespace-only line dropped)", len(page.Lines))
	}
	if len(page.Lines[0].Words) != 1 {
		t.Errorf("got %d words, want 1 (whitespace-only word dropped)", len(page.Lines[0].Words))
	}
}

func TestPageText(t *testing.T) {
	page := &Page{
		Lines: []engine.Line{
			{Text: "one two"},
			{Text: "three"},
		},
	}
	if got, want := page.Text(), "one two\nthree"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got := page.Words(); len(got) != 0 {
		t.Errorf("Words() on wordless lines = %d entries, want 0", len(got))
	}
}

func TestRenderRoundTrip(t *testing.T) {
	orig := &Page{
		Box: engine.Box{X0: 0, Y0: 0, X1: 320, Y1: 240},
		Lines: []engine.Line{
			{
				Text:       "a <b>",
				Confidence: 90,
				Box:        engine.Box{X0: 5, Y0: 5, X1: 100, Y1: 25},
				Words: []engine.Word{
					{Text: "a", Confidence: 95, Box: engine.Box{X0: 5, Y0: 5, X1: 20, Y1: 25}},
					{Text: "<b>", Confidence: 85, Box: engine.Box{X0: 30, Y0: 5, X1: 100, Y1: 25}},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Render(&buf, orig); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "&lt;b&gt;") {
		t.Errorf("rendered output does not escape markup: %s", buf.String())
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(rendered): %v", err)
	}
	if got.Box != orig.Box {
		t.Errorf("page box = %+v, want %+v", got.Box, orig.Box)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(got.Lines))
	}
	line := got.Lines[0]
	if line.Text != orig.Lines[0].Text {
		t.Errorf("line text = %q, want %q", line.Text, orig.Lines[0].Text)
	}
	for i, word := range line.Words {
		if word != orig.Lines[0].Words[i] {
			t.Errorf("word %d = %+v, want %+v", i, word, orig.Lines[0].Words[i])
		}
	}
}

func TestParseProps(t *testing.T) {
	props := parseProps(`image "x.png"; bbox 1 2 3 4; x_wconf 87`)
	if got := props["bbox"]; got != "1 2 3 4" {
		t.Errorf("bbox prop = %q", got)
	}
	box, ok := parseBox(props)
	if !ok || box != (engine.Box{X0: 1, Y0: 2, X1: 3, Y1: 4}) {
		t.Errorf("parseBox = %+v ok=%v", box, ok)
	}
	conf, ok := parseWConf(props)
	if !ok || conf != 87 {
		t.Errorf("parseWConf = %v ok=%v", conf, ok)
	}

	if _, ok := parseBox(parseProps("nothing here")); ok {
		t.Error("parseBox on junk reported ok")
	}
}
