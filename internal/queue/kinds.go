package queue

import (
	"fmt"
	"strings"

	"fileconverser/internal/media"
)

// Kind identifies one of the independent queue stores.
type Kind string

const (
	KindDocumentConvert  Kind = "document-convert"
	KindImageConvert     Kind = "image-convert"
	KindImageResize      Kind = "image-resize"
	KindDocumentCompress Kind = "document-compress"
	KindImageCompress    Kind = "image-compress"
)

var allKinds = []Kind{
	KindDocumentConvert,
	KindImageConvert,
	KindImageResize,
	KindDocumentCompress,
	KindImageCompress,
}

// Kinds returns every queue kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range allKinds {
		if k == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

// Category reports which job variant the kind holds.
func (k Kind) Category() media.Category {
	switch k {
	case KindImageConvert, KindImageResize, KindImageCompress:
		return media.CategoryImage
	default:
		return media.CategoryDocument
	}
}

// ReducesSize reports whether runs on this kind report the result size.
func (k Kind) ReducesSize() bool {
	switch k {
	case KindImageResize, KindImageCompress, KindDocumentCompress:
		return true
	default:
		return false
	}
}

// DownloadPrefix is the file name prefix used for results of this kind.
func (k Kind) DownloadPrefix() string {
	switch k {
	case KindImageResize:
		return media.PrefixResized
	case KindImageCompress, KindDocumentCompress:
		return media.PrefixOptimized
	default:
		return media.PrefixConverted
	}
}
