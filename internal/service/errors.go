package service

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("student not found")
	// ErrNoData reports that an operation had nothing to act on. Callers
	// surface it as a notice, not a failure.
	ErrNoData = errors.New("no data")
)
