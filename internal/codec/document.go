package codec

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"

	"fileconverser/internal/logging"
	"fileconverser/internal/media"
)

// Retention ratios applied by CompressDocument.
const (
	RatioLow    = 0.85
	RatioMedium = 0.65
	RatioHigh   = 0.45

	// RatioFallback applies to unknown levels and unusable custom values.
	RatioFallback = 0.7
)

// ConvertDocument converts src into the target format. Supported pairs are
// DOCX to HTML or TXT, TXT to HTML and HTML to TXT. A source already in the
// target format is returned as is. Other pairs are relabelled with the target
// media type, or fail with ErrUnsupportedConversion in strict mode.
func (c *Codec) ConvertDocument(ctx context.Context, src Input, target media.DocumentFormat) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	var (
		text string
		err  error
	)
	switch {
	case media.IsDOCX(src.MediaType, src.Name) && target == media.DocumentHTML:
		text, err = docxToHTML(src.Data)
	case media.IsDOCX(src.MediaType, src.Name) && target == media.DocumentTXT:
		text, err = docxToText(src.Data)
	case media.IsPlainText(src.MediaType, src.Name) && target == media.DocumentHTML:
		text = textToHTML(src.Name, string(src.Data))
	case media.IsHTML(src.MediaType, src.Name) && target == media.DocumentTXT:
		text, err = htmlToText(src.Data)
	case sourceFormat(src) == target:
		return Output{Data: src.Data, MediaType: target.MediaType()}, nil
	case c.strict:
		return Output{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, describeSource(src), target)
	default:
		c.logger.Debug("document relabelled",
			logging.String("source", src.Name),
			logging.String("target", string(target)))
		return Output{Data: src.Data, MediaType: target.MediaType()}, nil
	}
	if err != nil {
		return Output{}, err
	}
	return Output{Data: []byte(text), MediaType: target.MediaType()}, nil
}

// CompressDocument keeps floor(size * ratio) leading bytes of src, where the
// ratio follows the level. The media type is preserved.
func (c *Codec) CompressDocument(ctx context.Context, src Input, level media.CompressionLevel, custom float64) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	ratio := CompressionRatio(level, custom)
	n := int(math.Floor(float64(len(src.Data)) * ratio))
	n = max(0, min(n, len(src.Data)))
	out := make([]byte, n)
	copy(out, src.Data[:n])
	mediaType := src.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return Output{Data: out, MediaType: mediaType}, nil
}

// CompressionRatio maps a level to its retention ratio. Unknown levels and a
// non-positive custom value use RatioFallback.
func CompressionRatio(level media.CompressionLevel, custom float64) float64 {
	switch level {
	case media.CompressionLow:
		return RatioLow
	case media.CompressionHigh:
		return RatioHigh
	case media.CompressionCustom:
		if math.IsNaN(custom) || custom <= 0 {
			return RatioFallback
		}
		return math.Min(custom, 1)
	case media.CompressionMedium:
		return RatioMedium
	default:
		return RatioFallback
	}
}

func sourceFormat(src Input) media.DocumentFormat {
	switch {
	case media.IsDOCX(src.MediaType, src.Name):
		return media.DocumentDOCX
	case media.IsPlainText(src.MediaType, src.Name):
		return media.DocumentTXT
	case media.IsHTML(src.MediaType, src.Name):
		return media.DocumentHTML
	case media.IsPDF(src.MediaType, src.Name):
		return media.DocumentPDF
	default:
		return ""
	}
}

func describeSource(src Input) string {
	if f := sourceFormat(src); f != "" {
		return string(f)
	}
	if ext := media.Extension(src.Name); ext != "" {
		return strings.ToUpper(ext)
	}
	return "unknown"
}

func textToHTML(name, text string) string {
	return htmlDocument(media.BaseName(name), "<pre>"+html.EscapeString(text)+"</pre>\n")
}
