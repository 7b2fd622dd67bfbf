package domain

import "errors"

var (
	// ErrShapeMismatch reports a rainfall profile that does not contain
	// exactly one row per calendar month.
	ErrShapeMismatch = errors.New("rainfall table must contain exactly 12 monthly records")

	// ErrInvalidHorizon reports a non-positive projection horizon.
	ErrInvalidHorizon = errors.New("projection horizon must be a positive number of years")
)
