package config

import "fileconverser/internal/queue"

const (
	defaultConfigPath        = "~/.config/fileconverser/config.toml"
	projectConfigFile        = "fileconverser.toml"
	dotEnvFile               = ".env"
	defaultStateDir          = "~/.local/share/fileconverser"
	defaultOutputDir         = "~/Downloads/fileconverser"
	defaultLogDir            = "~/.local/share/fileconverser/logs"
	defaultAPIBind           = "127.0.0.1:7488"
	defaultImageFormat       = "JPG"
	defaultColorProfile      = "sRGB"
	defaultDocumentFormat    = "PDF"
	defaultCompressionLevel  = "medium"
	defaultMaxFileMB         = 100
	defaultPreviewMaxEdge    = 256
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	envOutputDir             = "FILECONVERSER_OUTPUT_DIR"
	envAPIBind               = "FILECONVERSER_API_BIND"
	envLogLevel              = "FILECONVERSER_LOG_LEVEL"
	envAPIToken              = "FILECONVERSER_API_TOKEN"
	defaultQuality           = queue.DefaultQuality
	defaultDPI               = queue.DefaultDPI
	defaultCustomCompression = queue.DefaultCustomCompression
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Images: Images{
			Format:       defaultImageFormat,
			Quality:      defaultQuality,
			DPI:          defaultDPI,
			ColorProfile: defaultColorProfile,
		},
		Documents: Documents{
			Format:            defaultDocumentFormat,
			CompressionLevel:  defaultCompressionLevel,
			CustomCompression: defaultCustomCompression,
		},
		Intake: Intake{
			MaxFileMB: defaultMaxFileMB,
		},
		Preview: Preview{
			Enabled: true,
			MaxEdge: defaultPreviewMaxEdge,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
