package codec

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"
	// maxDocxBody caps how much of the main document part is read.
	maxDocxBody = 64 << 20
)

type docxRun struct {
	text   string
	bold   bool
	italic bool
}

type docxParagraph struct {
	style string
	runs  []docxRun
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// headingLevel maps Word's built-in heading and title styles to 1..6.
func (p docxParagraph) headingLevel() int {
	style := strings.ToLower(strings.ReplaceAll(p.style, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxToHTML(data []byte) (string, error) {
	paragraphs, err := readDocx(data)
	if err != nil {
		return "", err
	}
	var body strings.Builder
	for _, p := range paragraphs {
		if strings.TrimSpace(p.text()) == "" {
			continue
		}
		tag := "p"
		if level := p.headingLevel(); level > 0 {
			tag = fmt.Sprintf("h%d", level)
		}
		body.WriteString("<" + tag + ">")
		for _, r := range p.runs {
			text := html.EscapeString(r.text)
			if r.italic {
				text = "<em>" + text + "</em>"
			}
			if r.bold {
				text = "<strong>" + text + "</strong>"
			}
			body.WriteString(text)
		}
		body.WriteString("</" + tag + ">\n")
	}
	return htmlDocument("", body.String()), nil
}

func docxToText(data []byte) (string, error) {
	paragraphs, err := readDocx(data)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(p.text())
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func readDocx(data []byte) ([]docxParagraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open docx archive: %w", ErrDecode, err)
	}
	for _, file := range zr.File {
		if file.Name != docxBodyPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrDecode, docxBodyPart, err)
		}
		body, err := io.ReadAll(io.LimitReader(rc, maxDocxBody))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, docxBodyPart, err)
		}
		return parseDocumentXML(body)
	}
	return nil, fmt.Errorf("%w: docx archive missing %s", ErrDecode, docxBodyPart)
}

// parseDocumentXML walks WordprocessingML paragraphs and runs. Only run-level
// bold and italic properties are honoured.
func parseDocumentXML(body []byte) ([]docxParagraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var (
		paragraphs []docxParagraph
		para       *docxParagraph
		run        *docxRun
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrDecode, docxBodyPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para = &docxParagraph{}
			case "pStyle":
				if para != nil {
					para.style = attrValue(t, "val")
				}
			case "r":
				run = &docxRun{}
			case "b":
				if run != nil {
					run.bold = toggleOn(t)
				}
			case "i":
				if run != nil {
					run.italic = toggleOn(t)
				}
			case "t":
				inText = run != nil
			case "tab":
				if run != nil {
					run.text += "\t"
				}
			case "br", "cr":
				if run != nil {
					run.text += "\n"
				}
			}
		case xml.CharData:
			if inText {
				run.text += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if run != nil && para != nil && run.text != "" {
					para.runs = append(para.runs, *run)
				}
				run = nil
			case "p":
				if para != nil {
					paragraphs = append(paragraphs, *para)
				}
				para = nil
			}
		}
	}
	return paragraphs, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggleOn(el xml.StartElement) bool {
	switch strings.ToLower(attrValue(el, "val")) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}

func htmlDocument(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
