package config

import (
	"fmt"
	"os"
	"strings"

	"fileconverser/internal/media"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeImages()
	c.normalizeDocuments()
	c.normalizePreview()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(envOutputDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if value, ok := os.LookupEnv(envAPIBind); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = value
	}
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv(envAPIToken); ok {
			c.Paths.APIToken = value
		}
	}
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

// Enum values are canonicalized when they parse; anything else is left for
// Validate to report.
func (c *Config) normalizeImages() {
	c.Images.Format = strings.TrimSpace(c.Images.Format)
	if c.Images.Format == "" {
		c.Images.Format = defaultImageFormat
	} else if f, err := media.ParseImageFormat(c.Images.Format); err == nil {
		c.Images.Format = string(f)
	}
	c.Images.ColorProfile = strings.TrimSpace(c.Images.ColorProfile)
	if c.Images.ColorProfile == "" {
		c.Images.ColorProfile = defaultColorProfile
	} else if p, err := media.ParseColorProfile(c.Images.ColorProfile); err == nil {
		c.Images.ColorProfile = string(p)
	}
	if c.Images.DPI == 0 {
		c.Images.DPI = defaultDPI
	}
}

func (c *Config) normalizeDocuments() {
	c.Documents.Format = strings.TrimSpace(c.Documents.Format)
	if c.Documents.Format == "" {
		c.Documents.Format = defaultDocumentFormat
	} else if f, err := media.ParseDocumentFormat(c.Documents.Format); err == nil {
		c.Documents.Format = string(f)
	}
	c.Documents.CompressionLevel = strings.TrimSpace(c.Documents.CompressionLevel)
	if c.Documents.CompressionLevel == "" {
		c.Documents.CompressionLevel = defaultCompressionLevel
	} else if l, err := media.ParseCompressionLevel(c.Documents.CompressionLevel); err == nil {
		c.Documents.CompressionLevel = string(l)
	}
	if c.Documents.CustomCompression == 0 {
		c.Documents.CustomCompression = defaultCustomCompression
	}
}

func (c *Config) normalizePreview() {
	if c.Preview.MaxEdge == 0 {
		c.Preview.MaxEdge = defaultPreviewMaxEdge
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
