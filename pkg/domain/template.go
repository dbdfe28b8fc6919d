package domain

// FieldKind is the primitive type of a template field.
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldBoolean FieldKind = "boolean"
	FieldDate    FieldKind = "date"
)

// Field is a single entry in a template's schema.
// Choice semantics are expressed by a text field carrying Options.
type Field struct {
	Name     string    `json:"name" yaml:"name" validate:"required"`
	Prompt   string    `json:"prompt" yaml:"prompt" validate:"required"`
	Kind     FieldKind `json:"kind" yaml:"kind" validate:"required,oneof=text number boolean date"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`

	// Options restricts a text field to an enumerated set of answers.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Length bounds for text fields. Zero means unset.
	MinLen int `json:"min_len,omitempty" yaml:"min_len,omitempty"`
	MaxLen int `json:"max_len,omitempty" yaml:"max_len,omitempty"`

	// Value bounds for number fields. Carried into the derived question for
	// display purposes; the answer validator does not enforce them.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Template describes one document type the assistant can identify and
// collect answers for. Immutable after catalog load.
type Template struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Description string   `json:"description" yaml:"description"`
	Fields      []Field  `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
	Keywords    []string `json:"keywords" yaml:"keywords" validate:"required,min=1"`
	Patterns    []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Scenarios are illustrative example phrases, display-only.
	Scenarios []string `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}
