package repository

import "errors"

var (
	// ErrNoData is returned when a persisted value is absent or unreadable
	ErrNoData = errors.New("no data")

	// ErrUnknownKey is returned when a state key is not a known registry
	ErrUnknownKey = errors.New("unknown state key")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
