package properties

import "errors"

var (
	// ErrMissingTitle is returned when a listing has no title
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidPrice is returned when the price is negative
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrPropertyNotFound is returned when a property is not found
	ErrPropertyNotFound = errors.New("property not found")

	// ErrMediaDisabled is returned when no media bucket is configured
	ErrMediaDisabled = errors.New("media storage is not configured")
)
