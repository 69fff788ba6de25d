package leads

import "errors"

var (
	// ErrMissingContact is returned when a capture carries no contact detail
	ErrMissingContact = errors.New("visitor contact is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
