package queue

import (
	"math"

	"fileconverser/internal/media"
)

// Default per-job configuration values.
const (
	DefaultQuality           = 0.75
	DefaultDPI               = 72
	DefaultCustomCompression = 0.7

	minCustomCompression = 0.01
	maxCustomCompression = 0.99
)

// Defaults seeds the configuration of newly created jobs.
type Defaults struct {
	ImageFormat       media.ImageFormat
	Quality           float64
	DPI               int
	ColorProfile      media.ColorProfile
	DocumentFormat    media.DocumentFormat
	CompressionLevel  media.CompressionLevel
	CustomCompression float64
}

// DefaultDefaults returns the built-in job defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		ImageFormat:       media.ImageJPG,
		Quality:           DefaultQuality,
		DPI:               DefaultDPI,
		ColorProfile:      media.ProfileSRGB,
		DocumentFormat:    media.DocumentPDF,
		CompressionLevel:  media.CompressionMedium,
		CustomCompression: DefaultCustomCompression,
	}
}

func (d Defaults) withFallbacks() Defaults {
	base := DefaultDefaults()
	if d.ImageFormat == "" {
		d.ImageFormat = base.ImageFormat
	}
	if d.Quality <= 0 {
		d.Quality = base.Quality
	}
	if d.DPI <= 0 {
		d.DPI = base.DPI
	}
	if d.ColorProfile == "" {
		d.ColorProfile = base.ColorProfile
	}
	if d.DocumentFormat == "" {
		d.DocumentFormat = base.DocumentFormat
	}
	if d.CompressionLevel == "" {
		d.CompressionLevel = base.CompressionLevel
	}
	if d.CustomCompression <= 0 {
		d.CustomCompression = base.CustomCompression
	}
	return d
}

// ImageSettings is the mutable per-image configuration.
type ImageSettings struct {
	Width               int                `json:"width"`
	Height              int                `json:"height"`
	Quality             float64            `json:"quality"`
	MaintainAspectRatio bool               `json:"maintain_aspect_ratio"`
	DPI                 int                `json:"dpi"`
	ColorProfile        media.ColorProfile `json:"color_profile"`
}

// ImageOptions extends a job with image specific state.
type ImageOptions struct {
	Original     media.Dimensions  `json:"original"`
	TargetFormat media.ImageFormat `json:"target_format"`
	Settings     ImageSettings     `json:"settings"`
}

func newImageOptions(original media.Dimensions, defaults Defaults) *ImageOptions {
	defaults = defaults.withFallbacks()
	opts := &ImageOptions{
		Original:     original,
		TargetFormat: defaults.ImageFormat,
		Settings: ImageSettings{
			Quality:             clampQuality(defaults.Quality),
			MaintainAspectRatio: true,
			DPI:                 defaults.DPI,
			ColorProfile:        defaults.ColorProfile,
		},
	}
	if original.Known() {
		opts.Settings.Width = original.Width
		opts.Settings.Height = original.Height
	}
	return opts
}

// SetWidth stores a new target width. With the aspect lock on and a known
// original, the height follows the original ratio.
func (o *ImageOptions) SetWidth(width int) {
	width = clampDimension(width)
	o.Settings.Width = width
	if o.Settings.MaintainAspectRatio && o.Original.Known() {
		o.Settings.Height = clampDimension(ScaleEdge(width, o.Original.Height, o.Original.Width))
	}
}

// SetHeight is the mirror of SetWidth.
func (o *ImageOptions) SetHeight(height int) {
	height = clampDimension(height)
	o.Settings.Height = height
	if o.Settings.MaintainAspectRatio && o.Original.Known() {
		o.Settings.Width = clampDimension(ScaleEdge(height, o.Original.Width, o.Original.Height))
	}
}

// SetMaintainAspectRatio toggles the lock. Current width and height are kept
// as they are in both directions.
func (o *ImageOptions) SetMaintainAspectRatio(enabled bool) {
	o.Settings.MaintainAspectRatio = enabled
}

// SetQuality stores quality clamped into [0,1].
func (o *ImageOptions) SetQuality(quality float64) {
	o.Settings.Quality = clampQuality(quality)
}

// SetDPI stores a DPI of at least 1.
func (o *ImageOptions) SetDPI(dpi int) {
	o.Settings.DPI = clampDimension(dpi)
}

// SetColorProfile stores the colour treatment.
func (o *ImageOptions) SetColorProfile(profile media.ColorProfile) {
	o.Settings.ColorProfile = profile
}

// SetTargetFormat stores the output format.
func (o *ImageOptions) SetTargetFormat(format media.ImageFormat) {
	o.TargetFormat = format
}

// ApplyPreset sets both edges verbatim, without aspect recompute.
func (o *ImageOptions) ApplyPreset(p media.Preset) {
	o.Settings.Width = clampDimension(p.Width)
	o.Settings.Height = clampDimension(p.Height)
}

// CompressScale is the scale factor for image compression: the target width
// over the original width when the aspect lock is on and the original is
// known, otherwise 1.
func (o *ImageOptions) CompressScale() float64 {
	if !o.Settings.MaintainAspectRatio || !o.Original.Known() || o.Settings.Width <= 0 {
		return 1
	}
	return float64(o.Settings.Width) / float64(o.Original.Width)
}

// DocumentOptions extends a job with document specific state.
type DocumentOptions struct {
	TargetFormat      media.DocumentFormat   `json:"target_format"`
	CompressionLevel  media.CompressionLevel `json:"compression_level"`
	CustomCompression float64                `json:"custom_compression"`
}

func newDocumentOptions(defaults Defaults) *DocumentOptions {
	defaults = defaults.withFallbacks()
	return &DocumentOptions{
		TargetFormat:      defaults.DocumentFormat,
		CompressionLevel:  defaults.CompressionLevel,
		CustomCompression: clampCustomCompression(defaults.CustomCompression),
	}
}

// SetTargetFormat stores the output format.
func (o *DocumentOptions) SetTargetFormat(format media.DocumentFormat) {
	o.TargetFormat = format
}

// SetCompressionLevel stores the compression level.
func (o *DocumentOptions) SetCompressionLevel(level media.CompressionLevel) {
	o.CompressionLevel = level
}

// SetCustomCompression stores the custom ratio clamped into [0.01, 0.99].
func (o *DocumentOptions) SetCustomCompression(ratio float64) {
	o.CustomCompression = clampCustomCompression(ratio)
}

// ScaleEdge returns round(value * numerator / denominator), the other edge of
// a box scaled along one axis.
func ScaleEdge(value, numerator, denominator int) int {
	if denominator <= 0 {
		return value
	}
	return int(math.Round(float64(value) * float64(numerator) / float64(denominator)))
}

func clampDimension(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func clampQuality(q float64) float64 {
	if math.IsNaN(q) || q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

func clampCustomCompression(r float64) float64 {
	if math.IsNaN(r) || r < minCustomCompression {
		return minCustomCompression
	}
	if r > maxCustomCompression {
		return maxCustomCompression
	}
	return r
}
