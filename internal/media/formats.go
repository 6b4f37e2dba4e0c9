package media

import (
	"fmt"
	"strings"
)

// Media types produced by the codec layer.
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypeWEBP = "image/webp"
	MediaTypeGIF  = "image/gif"
	MediaTypeBMP  = "image/bmp"
	MediaTypeTIFF = "image/tiff"
	MediaTypeAVIF = "image/avif"
	MediaTypeICO  = "image/x-icon"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
	MediaTypeHTML = "text/html"
)

// ImageFormat is an output encoding for image jobs.
type ImageFormat string

const (
	ImageJPG  ImageFormat = "JPG"
	ImagePNG  ImageFormat = "PNG"
	ImageWEBP ImageFormat = "WEBP"
	ImageAVIF ImageFormat = "AVIF"
	ImageGIF  ImageFormat = "GIF"
	ImageICO  ImageFormat = "ICO"
	ImageBMP  ImageFormat = "BMP"
	ImageTIFF ImageFormat = "TIFF"
)

var imageFormats = []ImageFormat{ImageJPG, ImagePNG, ImageWEBP, ImageAVIF, ImageGIF, ImageICO, ImageBMP, ImageTIFF}

// ImageFormats returns the selectable image output formats in display order.
func ImageFormats() []ImageFormat {
	out := make([]ImageFormat, len(imageFormats))
	copy(out, imageFormats)
	return out
}

// ParseImageFormat accepts any casing plus the JPEG alias.
func ParseImageFormat(value string) (ImageFormat, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "JPEG" {
		normalized = string(ImageJPG)
	}
	for _, f := range imageFormats {
		if string(f) == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported image format %q", value)
}

// MediaType returns the media type declared for output in this format.
func (f ImageFormat) MediaType() string {
	switch f {
	case ImageJPG:
		return MediaTypeJPEG
	case ImageWEBP:
		return MediaTypeWEBP
	case ImageAVIF:
		return MediaTypeAVIF
	case ImageGIF:
		return MediaTypeGIF
	case ImageICO:
		return MediaTypeICO
	case ImageBMP:
		return MediaTypeBMP
	case ImageTIFF:
		return MediaTypeTIFF
	default:
		return MediaTypePNG
	}
}

// ImageFormatForMediaType finds the output format that declares mediaType.
func ImageFormatForMediaType(mediaType string) (ImageFormat, bool) {
	base := baseMediaType(mediaType)
	for _, f := range imageFormats {
		if f.MediaType() == base {
			return f, true
		}
	}
	return "", false
}

// SupportsQuality reports whether the encoder honours a lossy quality value.
func (f ImageFormat) SupportsQuality() bool {
	return f == ImageJPG || f == ImageWEBP
}

// DocumentFormat is an output format for document jobs.
type DocumentFormat string

const (
	DocumentPDF  DocumentFormat = "PDF"
	DocumentDOCX DocumentFormat = "DOCX"
	DocumentTXT  DocumentFormat = "TXT"
	DocumentHTML DocumentFormat = "HTML"
)

var documentFormats = []DocumentFormat{DocumentPDF, DocumentDOCX, DocumentTXT, DocumentHTML}

// DocumentFormats returns the selectable document output formats.
func DocumentFormats() []DocumentFormat {
	out := make([]DocumentFormat, len(documentFormats))
	copy(out, documentFormats)
	return out
}

// ParseDocumentFormat accepts any casing plus the HTM alias.
func ParseDocumentFormat(value string) (DocumentFormat, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "HTM" {
		normalized = string(DocumentHTML)
	}
	for _, f := range documentFormats {
		if string(f) == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported document format %q", value)
}

// MediaType returns the media type a converted document is labelled with.
func (f DocumentFormat) MediaType() string {
	switch f {
	case DocumentPDF:
		return MediaTypePDF
	case DocumentDOCX:
		return MediaTypeDOCX
	case DocumentTXT:
		return MediaTypeText
	case DocumentHTML:
		return MediaTypeHTML
	default:
		return "application/octet-stream"
	}
}

// ColorProfile is the colour treatment applied while rasterising.
type ColorProfile string

const (
	ProfileSRGB      ColorProfile = "sRGB"
	ProfileAdobeRGB  ColorProfile = "AdobeRGB"
	ProfileDisplayP3 ColorProfile = "DisplayP3"
	ProfileGrayscale ColorProfile = "Grayscale"
)

var colorProfiles = []ColorProfile{ProfileSRGB, ProfileAdobeRGB, ProfileDisplayP3, ProfileGrayscale}

// ParseColorProfile matches a profile name case-insensitively.
func ParseColorProfile(value string) (ColorProfile, error) {
	trimmed := strings.TrimSpace(value)
	for _, p := range colorProfiles {
		if strings.EqualFold(string(p), trimmed) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported color profile %q", value)
}

// CompressionLevel selects the byte-retention ratio for document compression.
type CompressionLevel string

const (
	CompressionLow    CompressionLevel = "low"
	CompressionMedium CompressionLevel = "medium"
	CompressionHigh   CompressionLevel = "high"
	CompressionCustom CompressionLevel = "custom"
)

// ParseCompressionLevel matches a level name case-insensitively.
func ParseCompressionLevel(value string) (CompressionLevel, error) {
	switch CompressionLevel(strings.ToLower(strings.TrimSpace(value))) {
	case CompressionLow:
		return CompressionLow, nil
	case CompressionMedium:
		return CompressionMedium, nil
	case CompressionHigh:
		return CompressionHigh, nil
	case CompressionCustom:
		return CompressionCustom, nil
	}
	return "", fmt.Errorf("unsupported compression level %q", value)
}

// Dimensions is a pixel size. The zero value means unknown.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both edges are positive.
func (d Dimensions) Known() bool {
	return d.Width > 0 && d.Height > 0
}

// Preset is a named target size offered by the resize screen.
type Preset struct {
	Label  string
	Width  int
	Height int
}

var resizePresets = []Preset{
	{Label: "Instagram Post", Width: 1080, Height: 1080},
	{Label: "Instagram Story", Width: 1080, Height: 1920},
	{Label: "HD", Width: 1280, Height: 720},
	{Label: "Full HD", Width: 1920, Height: 1080},
	{Label: "4K Ultra HD", Width: 3840, Height: 2160},
	{Label: "Website Banner", Width: 1920, Height: 600},
}

// ResizePresets returns the built-in resize presets.
func ResizePresets() []Preset {
	out := make([]Preset, len(resizePresets))
	copy(out, resizePresets)
	return out
}

// LookupPreset finds a preset by label, ignoring case and surrounding space.
func LookupPreset(label string) (Preset, bool) {
	label = strings.TrimSpace(label)
	for _, p := range resizePresets {
		if strings.EqualFold(p.Label, label) {
			return p, true
		}
	}
	return Preset{}, false
}
