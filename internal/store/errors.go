package store

import "errors"

// Sentinel errors for the data layer. Callers classify failures with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrNotFound means an operation referenced an id that does not exist
	// in the targeted collection.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means a required field was missing, an enum value was
	// outside its closed set, or a reference pointed at an unusable record.
	ErrValidation = errors.New("validation failed")

	// ErrPrecondition means a batch operation's gate failed, e.g. bulk
	// assignment to an engineer that does not exist or is not active.
	ErrPrecondition = errors.New("precondition failed")
)
