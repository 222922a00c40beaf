package translate

import "errors"

var (
	// ErrComponentNotFound is returned when a referenced component does not exist.
	ErrComponentNotFound = errors.New("component not found")

	// ErrInvalidGeometry is returned when geometry conversion fails.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidDateTime is returned when datetime parsing fails.
	ErrInvalidDateTime = errors.New("invalid datetime format")

	// ErrUnsupportedFilter is returned when a filter expression cannot be translated.
	ErrUnsupportedFilter = errors.New("unsupported filter expression")

	// ErrMalformedRecord is returned when an upstream response row carries a
	// field that is present but cannot be parsed.
	ErrMalformedRecord = errors.New("malformed upstream record")
)
