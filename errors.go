package md2docx

import "errors"

// Sentinel errors for library operations.
var (
	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// ErrSerialize marks a failure while packaging the assembled
	// document. It is the only fatal error of a conversion: parse and
	// diagram failures degrade in place instead.
	ErrSerialize = errors.New("document serialization failed")
)
