package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"fileconverser/internal/intake"
	"fileconverser/internal/queue"
	"fileconverser/internal/workshop"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		imageFormat  string
		docFormat    string
		quality      float64
		colorProfile string
		dpi          int
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert images and documents to another format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readInputs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out, err := resolveOutDir(cfg, outDir)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			imagePatch := workshop.Patch{
				Format:       optionalString(imageFormat),
				ColorProfile: optionalString(colorProfile),
			}
			if flags.Changed("quality") {
				imagePatch.Quality = &quality
			}
			if flags.Changed("dpi") {
				imagePatch.DPI = &dpi
			}
			logSessionStart(ctx, "convert", len(files))
			return runSession(cmd, ctx, session{
				drops: []drop{{dest: intake.Destination{Screen: intake.ScreenHome}, files: files}},
				patches: map[queue.Kind]workshop.Patch{
					queue.KindImageConvert:    imagePatch,
					queue.KindDocumentConvert: {Format: optionalString(docFormat)},
				},
				kinds:  []queue.Kind{queue.KindImageConvert, queue.KindDocumentConvert},
				outDir: out,
			})
		},
	}

	cmd.Flags().StringVar(&imageFormat, "image-format", "", "Target image format (JPG, PNG, WEBP, GIF, ICO, BMP, TIFF)")
	cmd.Flags().StringVar(&docFormat, "doc-format", "", "Target document format (PDF, DOCX, TXT, HTML)")
	cmd.Flags().Float64Var(&quality, "quality", 0, "Image quality between 0 and 1")
	cmd.Flags().StringVar(&colorProfile, "color-profile", "", "Colour profile (sRGB, AdobeRGB, DisplayP3, Grayscale)")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "Image DPI setting")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to paths.output_dir)")
	return cmd
}

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var (
		level   string
		custom  float64
		quality float64
		format  string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "compress FILE...",
		Short: "Compress images and documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readInputs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out, err := resolveOutDir(cfg, outDir)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			imagePatch := workshop.Patch{Format: optionalString(format)}
			if flags.Changed("quality") {
				imagePatch.Quality = &quality
			}
			docPatch := workshop.Patch{CompressionLevel: optionalString(level)}
			if flags.Changed("custom") {
				if level != "" && !strings.EqualFold(level, "custom") {
					return errors.New("--custom requires --level custom or no --level")
				}
				docPatch.CompressionLevel = optionalString("custom")
				docPatch.CustomCompression = &custom
			}
			images, others := splitByCategory(files)
			logSessionStart(ctx, "compress", len(files))
			return runSession(cmd, ctx, session{
				drops: []drop{
					{dest: intake.Destination{Screen: intake.ScreenCompress, CompressTab: intake.TabImages}, files: images},
					{dest: intake.Destination{Screen: intake.ScreenCompress, CompressTab: intake.TabDocs}, files: others},
				},
				patches: map[queue.Kind]workshop.Patch{
					queue.KindImageCompress:    imagePatch,
					queue.KindDocumentCompress: docPatch,
				},
				kinds:  []queue.Kind{queue.KindImageCompress, queue.KindDocumentCompress},
				outDir: out,
			})
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Document compression level (low, medium, high, custom)")
	cmd.Flags().Float64Var(&custom, "custom", 0, "Custom document retention ratio between 0 and 1")
	cmd.Flags().Float64Var(&quality, "quality", 0, "Image quality between 0 and 1")
	cmd.Flags().StringVar(&format, "format", "", "Image output format")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to paths.output_dir)")
	return cmd
}

func newResizeCommand(ctx *commandContext) *cobra.Command {
	var (
		width    int
		height   int
		preset   string
		noAspect bool
		format   string
		quality  float64
		all      bool
		zipPath  string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "resize FILE...",
		Short: "Resize images individually or as a batch",
		Long: "Resize images. With --all the first file is the template: its settings are " +
			"configured from the flags and applied to every file in one batch.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readInputs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out, err := resolveOutDir(cfg, outDir)
			if err != nil {
				return err
			}
			archive := ""
			if strings.TrimSpace(zipPath) != "" {
				archive, err = resolveArchivePath(out, zipPath)
				if err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			patch := workshop.Patch{
				Format: optionalString(format),
				Preset: optionalString(preset),
			}
			if noAspect {
				keep := false
				patch.MaintainAspectRatio = &keep
			}
			if flags.Changed("width") {
				patch.Width = &width
			}
			if flags.Changed("height") {
				patch.Height = &height
			}
			if flags.Changed("quality") {
				patch.Quality = &quality
			}
			logSessionStart(ctx, "resize", len(files))
			return runSession(cmd, ctx, session{
				drops:   []drop{{dest: intake.Destination{Screen: intake.ScreenResize}, files: files}},
				patches: map[queue.Kind]workshop.Patch{queue.KindImageResize: patch},
				kinds:   []queue.Kind{queue.KindImageResize},
				batch:   all,
				zip:     archive,
				outDir:  out,
			})
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Target width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Target height in pixels")
	cmd.Flags().StringVar(&preset, "preset", "", "Size preset (e.g. \"Instagram Post\", \"Full HD\")")
	cmd.Flags().BoolVar(&noAspect, "no-aspect", false, "Do not keep the aspect ratio when one edge changes")
	cmd.Flags().StringVar(&format, "format", "", "Output image format")
	cmd.Flags().Float64Var(&quality, "quality", 0, "Image quality between 0 and 1")
	cmd.Flags().BoolVar(&all, "all", false, "Resize every file with the first file's settings")
	cmd.Flags().StringVar(&zipPath, "zip", "", "Write results into this ZIP archive instead of separate files")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to paths.output_dir)")
	return cmd
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
