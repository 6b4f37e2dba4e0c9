package config

import (
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
)

// JobDefaults converts the image and document sections into the seed values
// used for new jobs. Values that fail to parse fall back to the built-in
// defaults; Validate reports them on load.
func (c *Config) JobDefaults() queue.Defaults {
	d := queue.DefaultDefaults()
	if f, err := media.ParseImageFormat(c.Images.Format); err == nil {
		d.ImageFormat = f
	}
	if p, err := media.ParseColorProfile(c.Images.ColorProfile); err == nil {
		d.ColorProfile = p
	}
	if c.Images.Quality > 0 && c.Images.Quality <= 1 {
		d.Quality = c.Images.Quality
	}
	if c.Images.DPI > 0 {
		d.DPI = c.Images.DPI
	}
	if f, err := media.ParseDocumentFormat(c.Documents.Format); err == nil {
		d.DocumentFormat = f
	}
	if l, err := media.ParseCompressionLevel(c.Documents.CompressionLevel); err == nil {
		d.CompressionLevel = l
	}
	if c.Documents.CustomCompression > 0 {
		d.CustomCompression = c.Documents.CustomCompression
	}
	return d
}
