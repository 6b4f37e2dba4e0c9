package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Section: true, atom.Article: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Hr: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Noscript: true, atom.Template: true,
}

// htmlToText extracts visible text. Block elements become line breaks and
// runs of whitespace outside <pre> collapse to a single space.
func htmlToText(data []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	var (
		b            strings.Builder
		last         byte
		skip, pre    int
		pendingSpace bool
	)
	write := func(s string) {
		if s == "" {
			return
		}
		b.WriteString(s)
		last = s[len(s)-1]
	}
	newline := func() {
		if last != 0 && last != '\n' {
			write("\n")
		}
		pendingSpace = false
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: parse html: %w", ErrDecode, err)
			}
			return strings.TrimSpace(b.String()) + "\n", nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skippedElements[tok.DataAtom] {
				if tok.Type == html.StartTagToken {
					skip++
				}
				continue
			}
			if tok.DataAtom == atom.Pre {
				pre++
			}
			if blockElements[tok.DataAtom] {
				newline()
			}
		case html.EndTagToken:
			tok := z.Token()
			if skippedElements[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if tok.DataAtom == atom.Pre && pre > 0 {
				pre--
			}
			if blockElements[tok.DataAtom] {
				newline()
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if pre > 0 {
				write(text)
				continue
			}
			if text == "" {
				continue
			}
			leading := isHTMLSpace(text[0])
			for i, field := range strings.Fields(text) {
				if last != 0 && last != '\n' && (i > 0 || leading || pendingSpace) {
					write(" ")
				}
				write(field)
				pendingSpace = false
			}
			if isHTMLSpace(text[len(text)-1]) {
				pendingSpace = true
			}
		}
	}
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
