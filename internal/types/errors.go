package types

import "errors"

// Sentinel errors shared across the service. Handlers translate them to
// HTTP statuses; everything else is treated as an internal error.
var (
	// ErrValidation marks malformed coordinates or preference input.
	ErrValidation = errors.New("invalid input")
	// ErrEmptyCandidatePool is returned when no attraction survives
	// filtering. Callers surface it as "no matching attractions".
	ErrEmptyCandidatePool = errors.New("no attractions match the given preferences")
	// ErrExternalService marks a text-generation failure. It never
	// escapes the suggestion adapter; the engine degrades to the
	// algorithmic path instead.
	ErrExternalService = errors.New("text-generation service failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmailExists     = errors.New("email already registered")
)
