package testsupport

import (
	"path/filepath"
	"testing"

	"fileconverser/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = ""
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithStrictConversion toggles documents.strict_conversion.
func WithStrictConversion(strict bool) ConfigOption {
	return func(c *config.Config) {
		c.Documents.StrictConversion = strict
	}
}

// WithMaxFileMB overrides intake.max_file_mb.
func WithMaxFileMB(mb int) ConfigOption {
	return func(c *config.Config) {
		c.Intake.MaxFileMB = mb
	}
}
