package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label renders an identifier like "image-resize" as "Image Resize".
func Label(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	spaced := strings.Join(strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}), " ")
	return cases.Title(language.Und).String(spaced)
}
