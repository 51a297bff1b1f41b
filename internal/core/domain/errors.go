package domain

import "errors"

var (
	// ErrInvalidContext is returned when a call is started without the team or
	// channel identity it is derived from. Nothing is submitted in that case.
	ErrInvalidContext = errors.New("invalid call context")

	// ErrConfigFetch is returned when the configuration source could not be
	// read. Local state is left as it was.
	ErrConfigFetch = errors.New("config fetch failed")

	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidMessage = errors.New("invalid message")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
)
