package config

import (
	"errors"
	"fmt"
	"net"

	"fileconverser/internal/media"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateDocuments(); err != nil {
		return err
	}
	if err := c.validateIntake(); err != nil {
		return err
	}
	if err := c.validatePreview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateImages() error {
	if _, err := media.ParseImageFormat(c.Images.Format); err != nil {
		return fmt.Errorf("images.format: %w", err)
	}
	if _, err := media.ParseColorProfile(c.Images.ColorProfile); err != nil {
		return fmt.Errorf("images.color_profile: %w", err)
	}
	if c.Images.Quality < 0 || c.Images.Quality > 1 {
		return errors.New("images.quality must be between 0 and 1")
	}
	if c.Images.DPI < 1 {
		return errors.New("images.dpi must be positive")
	}
	return nil
}

func (c *Config) validateDocuments() error {
	if _, err := media.ParseDocumentFormat(c.Documents.Format); err != nil {
		return fmt.Errorf("documents.format: %w", err)
	}
	if _, err := media.ParseCompressionLevel(c.Documents.CompressionLevel); err != nil {
		return fmt.Errorf("documents.compression_level: %w", err)
	}
	if c.Documents.CustomCompression < 0.01 || c.Documents.CustomCompression > 0.99 {
		return errors.New("documents.custom_compression must be between 0.01 and 0.99")
	}
	return nil
}

func (c *Config) validateIntake() error {
	if c.Intake.MaxFileMB < 0 {
		return errors.New("intake.max_file_mb must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.Enabled && c.Preview.MaxEdge < 1 {
		return errors.New("preview.max_edge must be positive when preview.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
