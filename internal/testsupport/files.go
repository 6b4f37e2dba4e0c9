package testsupport

import (
	"archive/zip"
	"bytes"
	"html"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// PNG encodes a w×h image with a horizontal gradient.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / max(1, w)), G: 120, B: uint8(y * 255 / max(1, h)), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}

// DocxParagraph describes one paragraph of a DOCX fixture.
type DocxParagraph struct {
	Style  string
	Text   string
	Bold   bool
	Italic bool
}

// DOCX builds a minimal WordprocessingML package holding the paragraphs.
func DOCX(t testing.TB, paragraphs ...DocxParagraph) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		if p.Style != "" {
			body.WriteString(`<w:pPr><w:pStyle w:val="` + html.EscapeString(p.Style) + `"/></w:pPr>`)
		}
		body.WriteString("<w:r>")
		if p.Bold || p.Italic {
			body.WriteString("<w:rPr>")
			if p.Bold {
				body.WriteString("<w:b/>")
			}
			if p.Italic {
				body.WriteString("<w:i/>")
			}
			body.WriteString("</w:rPr>")
		}
		body.WriteString(`<w:t xml:space="preserve">` + html.EscapeString(p.Text) + "</w:t></w:r></w:p>")
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   document,
	}
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create docx part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("write docx part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx fixture: %v", err)
	}
	return buf.Bytes()
}
