package queue

import "errors"

var (
	// ErrJobNotFound is returned by Store operations addressing an id the
	// store does not hold.
	ErrJobNotFound = errors.New("job not found")

	// ErrUnknownKind is returned when parsing an unrecognised queue kind.
	ErrUnknownKind = errors.New("unknown queue kind")

	// ErrCategoryMismatch is returned when an edit targets the wrong job
	// variant, such as a document edit on an image job.
	ErrCategoryMismatch = errors.New("job category does not support this setting")
)
