package fields

import (
	"errors"
	"fmt"
)

// ValidationError marks a user-correctable input failure. The hosting form
// collects these as field-level messages; any other error reaching it is a
// propagated external failure and aborts processing instead.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-correctable validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Shared validation failures. Both the missing-selection and the
// stale-selection cases surface the same message, matching what users see in
// rendered forms.
var (
	ErrInvalidChoice   = Invalid("not a valid choice")
	ErrInvalidIntList  = Invalid("not a valid integer list")
	ErrInvalidGeoPoint = Invalid("not a valid coordinate location")
)
