package repository

import "errors"

var (
	// ErrNotFound is returned when a slot or entry has never been written.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for an empty slot key or a nil entry.
	ErrInvalidInput = errors.New("invalid input")
)
