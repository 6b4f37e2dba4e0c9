package codec

import (
	"log/slog"

	"fileconverser/internal/logging"
	"fileconverser/internal/media"
)

// DefaultPreviewEdge bounds the longer side of a preview thumbnail.
const DefaultPreviewEdge = 256

// Input is a source file handed to the codec.
type Input struct {
	Name      string
	MediaType string
	Data      []byte
}

// Output is the product of a successful transformation.
type Output struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
}

// ImageRequest configures a raster conversion. Zero width or height means
// the decoded source size.
type ImageRequest struct {
	Format  media.ImageFormat
	Width   int
	Height  int
	Quality float64
	Profile media.ColorProfile
	DPI     int
}

// Options configures a Codec.
type Options struct {
	// StrictConversion makes ConvertDocument fail on pairs it cannot convert
	// instead of relabelling the source bytes.
	StrictConversion bool
	// PreviewEdge bounds preview thumbnails. Zero uses DefaultPreviewEdge and
	// a negative value disables previews.
	PreviewEdge int
	Logger      *slog.Logger
}

// Codec bundles the transformations with their settings.
type Codec struct {
	strict      bool
	previewEdge int
	logger      *slog.Logger
}

// New constructs a Codec.
func New(opts Options) *Codec {
	edge := opts.PreviewEdge
	if edge == 0 {
		edge = DefaultPreviewEdge
	}
	return &Codec{
		strict:      opts.StrictConversion,
		previewEdge: edge,
		logger:      logging.NewComponentLogger(opts.Logger, "codec"),
	}
}
