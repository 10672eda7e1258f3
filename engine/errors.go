package engine

import "errors"

var (
	// ErrShape is returned when source data cannot form a rectangular table
	ErrShape = errors.New("table shape mismatch")

	// ErrInvalidIndex is returned for out of range cell positions or wrong entity kinds
	ErrInvalidIndex = errors.New("invalid index")

	// ErrInvariant marks a logic error: the store disagrees with itself
	ErrInvariant = errors.New("table invariant violated")
)
