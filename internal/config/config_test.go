package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fileconverser/internal/config"
	"fileconverser/internal/media"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "fileconverser")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	defaults := cfg.JobDefaults()
	if defaults.ImageFormat != media.ImageJPG || defaults.Quality != 0.75 || defaults.DPI != 72 {
		t.Fatalf("unexpected image defaults: %+v", defaults)
	}
	if defaults.DocumentFormat != media.DocumentPDF || defaults.CompressionLevel != media.CompressionMedium {
		t.Fatalf("unexpected document defaults: %+v", defaults)
	}
	if got := cfg.MaxFileBytes(); got != 100*1024*1024 {
		t.Fatalf("unexpected max file bytes: %d", got)
	}
}

func TestLoadCustomPathCanonicalizesEnums(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[images]
format = "webp"
color_profile = "grayscale"

[documents]
format = "htm"
compression_level = "HIGH"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if cfg.Images.Format != "WEBP" || cfg.Images.ColorProfile != "Grayscale" {
		t.Fatalf("unexpected images section: %+v", cfg.Images)
	}
	if cfg.Documents.Format != "HTML" || cfg.Documents.CompressionLevel != "high" {
		t.Fatalf("unexpected documents section: %+v", cfg.Documents)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "format", content: "[images]\nformat = \"heic\"\n", want: "images.format"},
		{name: "quality", content: "[images]\nquality = 1.5\n", want: "images.quality"},
		{name: "custom", content: "[documents]\ncustom_compression = 1.2\n", want: "documents.custom_compression"},
		{name: "bind", content: "[paths]\napi_bind = \"localhost\"\n", want: "paths.api_bind"},
		{name: "level", content: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	out := filepath.Join(home, "exports")
	t.Setenv("FILECONVERSER_OUTPUT_DIR", out)
	t.Setenv("FILECONVERSER_API_BIND", "127.0.0.1:9999")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.OutputDir != out {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FILECONVERSER_LOG_LEVEL", "")
	os.Unsetenv("FILECONVERSER_LOG_LEVEL")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FILECONVERSER_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected level from .env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	want := config.Default()
	if decoded.Images != want.Images || decoded.Documents != want.Documents || decoded.Paths.APIBind != want.Paths.APIBind {
		t.Fatalf("sample drifted from defaults: %+v", decoded)
	}
}
