package command

import "github.com/mattjoyce/slashgate/internal/payload"

// ValidationError is a recoverable rejection of a slash command. Its Message is
// safe to show to the invoking user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(reason, detail string) *ValidationError {
	return &ValidationError{Message: reason + ": " + detail}
}

// LookupError reports a required payload key that was absent. Unlike
// ValidationError it is not meant to be shown to users.
type LookupError = payload.LookupError
