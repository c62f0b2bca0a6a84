package domain

import "errors"

var (
	// ErrNotFound is returned when a customer, plan, catalog or task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks input rejected by validation before any write.
	ErrInvalid = errors.New("invalid input")

	// ErrConflict is returned when a plan was modified since it was read.
	ErrConflict = errors.New("plan was modified concurrently")
)
