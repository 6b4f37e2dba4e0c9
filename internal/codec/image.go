package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"fileconverser/internal/logging"
	"fileconverser/internal/media"
)

const (
	// icoMaxEdge is the largest square an ICO directory entry can describe.
	icoMaxEdge = 256

	vividSaturation = 15
	vividContrast   = 5
)

// ConvertImage decodes src, scales it to the requested box, applies the
// colour profile and encodes it in the requested format.
func (c *Codec) ConvertImage(ctx context.Context, src Input, req ImageRequest) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if req.Format == media.ImageAVIF {
		return Output{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
	img, err := decodeImage(src.Data)
	if err != nil {
		return Output{}, err
	}

	bounds := img.Bounds()
	width, height := req.Width, req.Height
	if width <= 0 {
		width = bounds.Dx()
	}
	if height <= 0 {
		height = bounds.Dy()
	}
	if req.Format == media.ImageICO {
		side := min(width, height, icoMaxEdge)
		width, height = side, side
	}

	img = scale(img, width, height)
	img = applyProfile(img, req.Profile)

	data, err := encodeImage(img, req.Format, req.Quality)
	if err != nil {
		return Output{}, err
	}
	c.logger.Debug("image converted",
		logging.String("source", src.Name),
		logging.String("format", string(req.Format)),
		logging.Int("width", width),
		logging.Int("height", height),
		logging.Int("bytes", len(data)))
	return Output{Data: data, MediaType: req.Format.MediaType(), Width: width, Height: height}, nil
}

// CompressImage re-encodes src at the given quality after scaling both edges
// by factor. Each edge is at least one pixel.
func (c *Codec) CompressImage(ctx context.Context, src Input, quality float64, format media.ImageFormat, factor float64) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if format == media.ImageAVIF {
		return Output{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		factor = 1
	}
	img, err := decodeImage(src.Data)
	if err != nil {
		return Output{}, err
	}
	bounds := img.Bounds()
	width := max(1, int(math.Round(float64(bounds.Dx())*factor)))
	height := max(1, int(math.Round(float64(bounds.Dy())*factor)))
	if format == media.ImageICO {
		side := min(width, height, icoMaxEdge)
		width, height = side, side
	}
	img = scale(img, width, height)

	data, err := encodeImage(img, format, quality)
	if err != nil {
		return Output{}, err
	}
	c.logger.Debug("image compressed",
		logging.String("source", src.Name),
		logging.Float64("quality", quality),
		logging.Float64("scale", factor),
		logging.Int("bytes", len(data)))
	return Output{Data: data, MediaType: format.MediaType(), Width: width, Height: height}, nil
}

// Probe reads the pixel size from the image header without decoding pixels.
func (c *Codec) Probe(ctx context.Context, src Input) (media.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return media.Dimensions{}, err
	}
	data := src.Data
	if payload, ok := icoPNGPayload(data); ok {
		data = payload
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return media.Dimensions{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return media.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeImage(data []byte) (image.Image, error) {
	if payload, ok := icoPNGPayload(data); ok {
		data = payload
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

func scale(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

func applyProfile(img image.Image, profile media.ColorProfile) image.Image {
	switch profile {
	case media.ProfileGrayscale:
		return imaging.Grayscale(img)
	case media.ProfileAdobeRGB, media.ProfileDisplayP3:
		return imaging.AdjustContrast(imaging.AdjustSaturation(img, vividSaturation), vividContrast)
	default:
		return img
	}
}

func encodeImage(img image.Image, format media.ImageFormat, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case media.ImageJPG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality)))
	case media.ImagePNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case media.ImageGIF:
		err = imaging.Encode(&buf, img, imaging.GIF)
	case media.ImageBMP:
		err = imaging.Encode(&buf, img, imaging.BMP)
	case media.ImageTIFF:
		err = imaging.Encode(&buf, img, imaging.TIFF)
	case media.ImageWEBP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(clampUnit(quality) * 100)})
	case media.ImageICO:
		err = encodeICO(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	return max(1, min(100, int(math.Round(clampUnit(q)*100))))
}

func clampUnit(q float64) float64 {
	if math.IsNaN(q) || q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}
