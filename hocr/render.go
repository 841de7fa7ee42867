package hocr

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// Render writes p as a standalone hOCR document. Output round-trips through
// Parse; word ids follow Tesseract's word_1_N convention.
func Render(w io.Writer, p *Page) error {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title></title>
<meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
<meta name="ocr-system" content="ocrkit"/>
<meta name="ocr-capabilities" content="ocr_page ocr_line ocrx_word"/>
</head>
<body>
`)
	fmt.Fprintf(&sb, "<div class='ocr_page' id='page_1' title='bbox %d %d %d %d'>\n",
		p.Box.X0, p.Box.Y0, p.Box.X1, p.Box.Y1)

	wordID := 0
	for i, line := range p.Lines {
		fmt.Fprintf(&sb, "<span class='ocr_line' id='line_1_%d' title='bbox %d %d %d %d'>",
			i+1, line.Box.X0, line.Box.Y0, line.Box.X1, line.Box.Y1)
		for _, word := range line.Words {
			wordID++
			fmt.Fprintf(&sb, "<span class='ocrx_word' id='word_1_%d' title='bbox %d %d %d %d; x_wconf %.0f'>%s</span> ",
				wordID, word.Box.X0, word.Box.Y0, word.Box.X1, word.Box.Y1,
				word.Confidence, html.EscapeString(word.Text))
		}
		sb.WriteString("</span>\n")
	}
	sb.WriteString("</div>\n</body>\n</html>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
