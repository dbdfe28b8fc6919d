package answer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/answer"
	"github.com/formpilot/formpilot/pkg/domain"
)

func TestValidate_RequiredEmpty(t *testing.T) {
	v := answer.New()
	q := domain.Question{ID: "owner_name", Kind: domain.QuestionText, Required: true}

	_, err := v.Validate(q, "   ")
	require.Error(t, err)
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.RequiredFieldMissing, ve.Kind)
	assert.Equal(t, "owner_name", ve.Field)
}

func TestValidate_OptionalEmptyShortCircuits(t *testing.T) {
	v := answer.New()

	// Even an otherwise-strict kind passes when optional and empty.
	q := domain.Question{ID: "effective_date", Kind: domain.QuestionDate}
	got, err := v.Validate(q, "")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestValidate_Date(t *testing.T) {
	v := answer.New()
	q := domain.Question{ID: "signature_date", Kind: domain.QuestionDate, Required: true}

	cases := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"canonical", "2024-01-15", "2024-01-15", true},
		{"surrounding space", "  2024-01-15  ", "2024-01-15", true},
		{"us style rejected", "01/15/2024", "", false},
		{"not a date", "soon", "", false},
		{"impossible day", "2024-02-30", "", false},
		{"impossible month", "2024-13-01", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Validate(q, tc.raw)
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}
			ve, ok := domain.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, domain.InvalidDateFormat, ve.Kind)
		})
	}
}

func TestValidate_CustomDateLayout(t *testing.T) {
	v := answer.New(answer.WithDateLayout("01/02/2006"))
	q := domain.Question{ID: "d", Kind: domain.QuestionDate, Required: true}

	got, err := v.Validate(q, "01/15/2024")
	require.NoError(t, err)
	assert.Equal(t, "01/15/2024", got)

	_, err = v.Validate(q, "2024-01-15")
	assert.Error(t, err)
}

func TestValidate_Boolean(t *testing.T) {
	v := answer.New()
	q := domain.Question{ID: "irrevocable", Kind: domain.QuestionBoolean, Required: true}

	for _, raw := range []string{"true", "YES", "y", "1", "Yes"} {
		got, err := v.Validate(q, raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, "true", got, "input %q", raw)
	}
	for _, raw := range []string{"false", "No", "N", "0"} {
		got, err := v.Validate(q, raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, "false", got, "input %q", raw)
	}

	_, err := v.Validate(q, "maybe")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.InvalidBooleanValue, ve.Kind)
}

func TestValidate_Choice(t *testing.T) {
	v := answer.New()
	q := domain.Question{
		ID:       "payout_method",
		Kind:     domain.QuestionChoice,
		Required: true,
		Options:  []string{"Check", "Direct Deposit", "Wire Transfer"},
	}

	// Case-insensitive match normalizes to the declared casing.
	got, err := v.Validate(q, "direct deposit")
	require.NoError(t, err)
	assert.Equal(t, "Direct Deposit", got)

	_, err = v.Validate(q, "paypal")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.InvalidChoice, ve.Kind)
	// The full option list is echoed for user guidance.
	assert.Equal(t, q.Options, ve.Options)
	assert.Contains(t, ve.Error(), "Wire Transfer")
}

func TestValidate_TextBounds(t *testing.T) {
	v := answer.New()
	q := domain.Question{ID: "request_details", Kind: domain.QuestionText, Required: true, MinLen: 5, MaxLen: 10}

	_, err := v.Validate(q, "abc")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.TooShort, ve.Kind)

	_, err = v.Validate(q, "abcdefghijk")
	ve, ok = domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.TooLong, ve.Kind)

	got, err := v.Validate(q, "  just fit  ")
	require.NoError(t, err)
	assert.Equal(t, "just fit", got)
}

func TestValidate_NumberBoundsNotEnforced(t *testing.T) {
	v := answer.New()
	min, max := 100.0, 500.0
	q := domain.Question{ID: "amount", Kind: domain.QuestionText, Required: true, Min: &min, Max: &max}

	// Numeric bounds are carried on the question but deliberately not
	// enforced here; out-of-range values pass through.
	got, err := v.Validate(q, "999999")
	require.NoError(t, err)
	assert.Equal(t, "999999", got)
}
