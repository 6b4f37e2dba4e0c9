package media

import (
	"path"
	"strings"
)

// Category is the coarse kind of a queued file.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryOther    Category = "other"
)

var documentMediaTypes = setOf(
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	"text/html",
	"application/rtf",
	"application/vnd.oasis.opendocument.text",
)

var documentExtensions = setOf("pdf", "docx", "doc", "txt", "rtf", "odt", "html", "htm", "pptx")

func setOf(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Classify maps a declared media type and file name to a Category. It never
// fails; anything unrecognised is CategoryOther.
func Classify(mediaType, fileName string) Category {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if strings.HasPrefix(mediaType, "image/") {
		return CategoryImage
	}
	if _, ok := documentMediaTypes[baseMediaType(mediaType)]; ok {
		return CategoryDocument
	}
	if _, ok := documentExtensions[Extension(fileName)]; ok {
		return CategoryDocument
	}
	return CategoryOther
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	ext := path.Ext(strings.TrimSpace(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsDOCX reports whether the file looks like an Office Open XML word document.
func IsDOCX(mediaType, name string) bool {
	return baseMediaType(mediaType) == MediaTypeDOCX || Extension(name) == "docx"
}

// IsPlainText reports whether the file looks like plain text.
func IsPlainText(mediaType, name string) bool {
	return baseMediaType(mediaType) == MediaTypeText || Extension(name) == "txt"
}

// IsHTML reports whether the file looks like an HTML document.
func IsHTML(mediaType, name string) bool {
	ext := Extension(name)
	return baseMediaType(mediaType) == MediaTypeHTML || ext == "html" || ext == "htm"
}

func baseMediaType(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	return mediaType
}

// IsPDF reports whether the file looks like a PDF.
func IsPDF(mediaType, name string) bool {
	return baseMediaType(mediaType) == MediaTypePDF || Extension(name) == "pdf"
}
