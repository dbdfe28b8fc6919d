package domain

// QuestionKind is the interaction type inferred for a question.
type QuestionKind string

const (
	QuestionText    QuestionKind = "text"
	QuestionBoolean QuestionKind = "boolean"
	QuestionDate    QuestionKind = "date"
	QuestionChoice  QuestionKind = "choice"
)

// Question is a single step presented to the user, either a discovery graph
// node or an elicitation field.
type Question struct {
	// ID is the discovery node id or the elicitation field name.
	ID       string       `json:"id"`
	Prompt   string       `json:"prompt"`
	Kind     QuestionKind `json:"kind"`
	Required bool         `json:"required,omitempty"`
	Options  []string     `json:"options,omitempty"`

	// Bounds carried through from the field schema. Numeric bounds are
	// informational only (see answer package).
	MinLen int      `json:"min_len,omitempty"`
	MaxLen int      `json:"max_len,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// QuestionKindForField infers the interaction type for a schema field.
func QuestionKindForField(f Field) QuestionKind {
	switch {
	case f.Kind == FieldBoolean:
		return QuestionBoolean
	case f.Kind == FieldDate:
		return QuestionDate
	case len(f.Options) > 0:
		return QuestionChoice
	default:
		return QuestionText
	}
}
