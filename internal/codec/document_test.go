package codec_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fileconverser/internal/codec"
	"fileconverser/internal/media"
	"fileconverser/internal/testsupport"
)

func TestConvertDocxToHTMLAndText(t *testing.T) {
	c := codec.New(codec.Options{})
	data := testsupport.DOCX(t,
		testsupport.DocxParagraph{Style: "Heading1", Text: "Quarterly <Report>"},
		testsupport.DocxParagraph{Text: "Revenue grew", Bold: true},
		testsupport.DocxParagraph{Text: "see appendix", Italic: true},
	)
	src := codec.Input{Name: "report.docx", MediaType: media.MediaTypeDOCX, Data: data}

	out, err := c.ConvertDocument(context.Background(), src, media.DocumentHTML)
	if err != nil {
		t.Fatalf("ConvertDocument html: %v", err)
	}
	body := string(out.Data)
	for _, want := range []string{"<h1>Quarterly &lt;Report&gt;</h1>", "<p><strong>Revenue grew</strong></p>", "<p><em>see appendix</em></p>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in %q", want, body)
		}
	}
	if out.MediaType != media.MediaTypeHTML {
		t.Fatalf("media type = %q", out.MediaType)
	}

	txt, err := c.ConvertDocument(context.Background(), src, media.DocumentTXT)
	if err != nil {
		t.Fatalf("ConvertDocument txt: %v", err)
	}
	if got := string(txt.Data); got != "Quarterly <Report>\n\nRevenue grew\n\nsee appendix\n\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestConvertTextAndHTML(t *testing.T) {
	c := codec.New(codec.Options{})
	txt := codec.Input{Name: "notes.txt", MediaType: media.MediaTypeText, Data: []byte("a < b & c")}
	out, err := c.ConvertDocument(context.Background(), txt, media.DocumentHTML)
	if err != nil {
		t.Fatalf("txt to html: %v", err)
	}
	if !strings.Contains(string(out.Data), "<pre>a &lt; b &amp; c</pre>") {
		t.Fatalf("unexpected html %q", out.Data)
	}

	page := codec.Input{Name: "page.html", Data: []byte(`<html><head><title>x</title><style>p{}</style></head><body><h1>Title</h1><p>Hello <b>big</b>   world</p><script>alert(1)</script><p>Bye&amp;done</p></body></html>`)}
	out, err = c.ConvertDocument(context.Background(), page, media.DocumentTXT)
	if err != nil {
		t.Fatalf("html to txt: %v", err)
	}
	if got := string(out.Data); got != "Title\nHello big world\nBye&done\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestConvertDocumentPassthroughAndStrict(t *testing.T) {
	src := codec.Input{Name: "scan.pdf", MediaType: media.MediaTypePDF, Data: []byte("%PDF-1.4")}

	lenient := codec.New(codec.Options{})
	out, err := lenient.ConvertDocument(context.Background(), src, media.DocumentDOCX)
	if err != nil {
		t.Fatalf("lenient conversion: %v", err)
	}
	if string(out.Data) != "%PDF-1.4" || out.MediaType != media.MediaTypeDOCX {
		t.Fatalf("expected relabelled passthrough, got %q %q", out.Data, out.MediaType)
	}

	strict := codec.New(codec.Options{StrictConversion: true})
	if _, err := strict.ConvertDocument(context.Background(), src, media.DocumentDOCX); !errors.Is(err, codec.ErrUnsupportedConversion) {
		t.Fatalf("expected ErrUnsupportedConversion, got %v", err)
	}
	same, err := strict.ConvertDocument(context.Background(), src, media.DocumentPDF)
	if err != nil || string(same.Data) != "%PDF-1.4" {
		t.Fatalf("same-format conversion should pass through, got %q %v", same.Data, err)
	}
}

func TestConvertBrokenDocx(t *testing.T) {
	c := codec.New(codec.Options{})
	src := codec.Input{Name: "broken.docx", Data: []byte("PK not really")}
	if _, err := c.ConvertDocument(context.Background(), src, media.DocumentHTML); !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestCompressDocument(t *testing.T) {
	c := codec.New(codec.Options{})
	src := codec.Input{Name: "a.pdf", MediaType: media.MediaTypePDF, Data: make([]byte, 1000)}
	cases := []struct {
		level  media.CompressionLevel
		custom float64
		want   int
	}{
		{media.CompressionLow, 0, 850},
		{media.CompressionMedium, 0, 650},
		{media.CompressionHigh, 0, 450},
		{media.CompressionCustom, 0.33, 330},
	}
	for _, tc := range cases {
		out, err := c.CompressDocument(context.Background(), src, tc.level, tc.custom)
		if err != nil {
			t.Fatalf("CompressDocument(%s): %v", tc.level, err)
		}
		if len(out.Data) != tc.want || out.MediaType != media.MediaTypePDF {
			t.Fatalf("%s: got %d bytes %q", tc.level, len(out.Data), out.MediaType)
		}
	}
}

func TestCompressionRatioFallback(t *testing.T) {
	cases := []struct {
		level  media.CompressionLevel
		custom float64
	}{
		{media.CompressionCustom, 0},
		{media.CompressionCustom, -0.2},
		{media.CompressionLevel("extreme"), 0.5},
	}
	for _, tc := range cases {
		if got := codec.CompressionRatio(tc.level, tc.custom); got != codec.RatioFallback {
			t.Fatalf("CompressionRatio(%q, %v) = %v, want %v", tc.level, tc.custom, got, codec.RatioFallback)
		}
	}
	if got := codec.CompressionRatio(media.CompressionMedium, 0); got != codec.RatioMedium {
		t.Fatalf("medium ratio = %v, want %v", got, codec.RatioMedium)
	}
}
