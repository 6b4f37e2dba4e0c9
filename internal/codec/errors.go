package codec

import "errors"

var (
	// ErrUnsupportedFormat is returned when no encoder exists for the target.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrUnsupportedConversion is returned by strict document conversion when
	// the source and target pair has no converter.
	ErrUnsupportedConversion = errors.New("unsupported document conversion")
	// ErrDecode is returned when the source bytes cannot be decoded.
	ErrDecode = errors.New("decode source")
)
