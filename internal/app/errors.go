package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GenericErrorMessage is the only message shown for a failed login or
// registration, whatever the cause.
const GenericErrorMessage = "An error occurred"

// ErrGeneric matches every *AuthError with errors.Is.
var ErrGeneric = errors.New(GenericErrorMessage)

// ErrLoginRequired is returned by operations that need a logged-in user.
var ErrLoginRequired = errors.New("login required")

// AuthError is a failed login or registration. Its message is always
// GenericErrorMessage; the underlying cause is kept for logging.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return GenericErrorMessage }

func (e *AuthError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeneric) true for any AuthError.
func (e *AuthError) Is(target error) bool { return target == ErrGeneric }

// ValidationError lists the form fields that failed validation, keyed by
// field name. A form with a ValidationError is never sent to the backend.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
