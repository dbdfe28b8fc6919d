package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateNotFound is returned for an unknown template id.
var ErrTemplateNotFound = errors.New("template not found")

// ErrNoActiveSession is returned when an engine operation is called before start.
var ErrNoActiveSession = errors.New("no active session")

// ErrNoCurrentQuestion is returned when a session is already complete.
var ErrNoCurrentQuestion = errors.New("no current question")

// ErrSessionNotFound is returned when a session id cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")

// ValidationKind classifies an answer validation failure.
type ValidationKind string

const (
	RequiredFieldMissing ValidationKind = "required_field_missing"
	InvalidDateFormat    ValidationKind = "invalid_date_format"
	InvalidBooleanValue  ValidationKind = "invalid_boolean_value"
	InvalidChoice        ValidationKind = "invalid_choice"
	TooShort             ValidationKind = "too_short"
	TooLong              ValidationKind = "too_long"
)

// ValidationError reports a rejected answer. It is returned as a value so the
// session stays unchanged and the caller can retry in place.
type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Field   string         `json:"field"`
	Message string         `json:"message"`

	// Options echoes the allowed values for InvalidChoice failures.
	Options []string `json:"options,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Options) > 0 {
		return fmt.Sprintf("%s: %s (expected one of: %s)", e.Field, e.Message, strings.Join(e.Options, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
