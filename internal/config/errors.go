package config

import "errors"

// Errors returned by Validate.
var (
	// ErrUnknownCharset indicates editor.charset names no charset.
	ErrUnknownCharset = errors.New("unknown charset")

	// ErrUnknownEOL indicates editor.eol is not unix, dos or mac.
	ErrUnknownEOL = errors.New("unknown EOL type")

	// ErrInvalidValue indicates a numeric setting out of range.
	ErrInvalidValue = errors.New("invalid value")
)
