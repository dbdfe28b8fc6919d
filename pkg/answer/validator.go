// Package answer validates and normalizes raw answers against a question's
// declared type and constraints. It is pure and stateless: failures are
// returned as *domain.ValidationError values so the calling engine can keep
// its session unchanged and let the user retry in place.
package answer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/formpilot/formpilot/pkg/domain"
)

// DefaultDateLayout is the canonical calendar-date format accepted for date
// questions. The upstream variants disagreed on the format, so it is
// configuration here rather than a hard rule.
const DefaultDateLayout = "2006-01-02"

var (
	affirmative = []string{"true", "yes", "y", "1"}
	negative    = []string{"false", "no", "n", "0"}
)

// Validator normalizes answers. The zero value is not usable; use New.
type Validator struct {
	dateLayout string
}

// Option configures the Validator.
type Option func(*Validator)

// WithDateLayout overrides the accepted date format.
func WithDateLayout(layout string) Option {
	return func(v *Validator) {
		if layout != "" {
			v.dateLayout = layout
		}
	}
}

// New creates a Validator with the default date layout.
func New(opts ...Option) *Validator {
	v := &Validator{dateLayout: DefaultDateLayout}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DateLayout returns the accepted date format, for display in prompts.
func (v *Validator) DateLayout() string {
	return v.dateLayout
}

// Validate checks raw against the question and returns the normalized value.
//
// The required-empty check runs before type dispatch: a required question
// rejects an empty (trimmed) answer, an optional one short-circuits to an
// empty value. Numeric min/max bounds on the question are NOT enforced; they
// are carried for display only.
func (v *Validator) Validate(q domain.Question, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if q.Required {
			return "", &domain.ValidationError{
				Kind:    domain.RequiredFieldMissing,
				Field:   q.ID,
				Message: "this field is required",
			}
		}
		return "", nil
	}

	switch q.Kind {
	case domain.QuestionDate:
		return v.validateDate(q, trimmed)
	case domain.QuestionBoolean:
		return v.validateBoolean(q, trimmed)
	case domain.QuestionChoice:
		return v.validateChoice(q, trimmed)
	default:
		return v.validateText(q, trimmed)
	}
}

func (v *Validator) validateDate(q domain.Question, s string) (string, error) {
	parsed, err := time.Parse(v.dateLayout, s)
	if err != nil {
		return "", &domain.ValidationError{
			Kind:    domain.InvalidDateFormat,
			Field:   q.ID,
			Message: fmt.Sprintf("expected a real calendar date in the form %s", v.dateLayout),
		}
	}
	// Canonical form: re-render so "2024-1-5" style laxness never leaks through.
	return parsed.Format(v.dateLayout), nil
}

func (v *Validator) validateBoolean(q domain.Question, s string) (string, error) {
	lower := strings.ToLower(s)
	for _, t := range affirmative {
		if lower == t {
			return "true", nil
		}
	}
	for _, f := range negative {
		if lower == f {
			return "false", nil
		}
	}
	return "", &domain.ValidationError{
		Kind:    domain.InvalidBooleanValue,
		Field:   q.ID,
		Message: "expected yes/no (also accepts true/false, y/n, 1/0)",
	}
}

func (v *Validator) validateChoice(q domain.Question, s string) (string, error) {
	for _, opt := range q.Options {
		if strings.EqualFold(s, opt) {
			// Normalize to the declared casing.
			return opt, nil
		}
	}
	return "", &domain.ValidationError{
		Kind:    domain.InvalidChoice,
		Field:   q.ID,
		Message: "not one of the allowed choices",
		Options: q.Options,
	}
}

func (v *Validator) validateText(q domain.Question, s string) (string, error) {
	n := utf8.RuneCountInString(s)
	if q.MinLen > 0 && n < q.MinLen {
		return "", &domain.ValidationError{
			Kind:    domain.TooShort,
			Field:   q.ID,
			Message: fmt.Sprintf("must be at least %d characters", q.MinLen),
		}
	}
	if q.MaxLen > 0 && n > q.MaxLen {
		return "", &domain.ValidationError{
			Kind:    domain.TooLong,
			Field:   q.ID,
			Message: fmt.Sprintf("must be at most %d characters", q.MaxLen),
		}
	}
	return s, nil
}
