package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks caller input that was rejected.
	ErrValidation = errors.New("validation failed")
	// ErrPrecondition marks an operation that is not allowed in the current state.
	ErrPrecondition = errors.New("precondition failed")
	// ErrIntegrity marks stored state that violates an invariant. Callers treat it as internal.
	ErrIntegrity = errors.New("data integrity violation")
)
