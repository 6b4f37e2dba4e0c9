package codec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"

	"fileconverser/internal/media"
)

// Preview renders a PNG thumbnail fitted inside the configured edge. Documents
// and disabled previews yield nil without error.
func (c *Codec) Preview(ctx context.Context, src Input, category media.Category) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if category != media.CategoryImage || c.previewEdge < 0 {
		return nil, nil
	}
	img, err := decodeImage(src.Data)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fit(img, c.previewEdge, c.previewEdge, imaging.Box)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
