// Package catalog holds the static, read-only collection of form templates.
// A Catalog never mutates after construction, so it is safe for
// unsynchronized concurrent reads.
package catalog

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/formpilot/formpilot/pkg/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog is an immutable, ordered collection of templates.
type Catalog struct {
	templates []domain.Template
	byID      map[string]int
}

// New builds a catalog from templates, preserving declaration order.
// It rejects structurally invalid data so every later lookup can trust it.
func New(templates []domain.Template) (*Catalog, error) {
	c := &Catalog{
		templates: templates,
		byID:      make(map[string]int, len(templates)),
	}
	for i, tpl := range templates {
		if err := validate.Struct(tpl); err != nil {
			return nil, fmt.Errorf("template %q: %w", tpl.ID, err)
		}
		if err := checkTemplate(tpl); err != nil {
			return nil, fmt.Errorf("template %q: %w", tpl.ID, err)
		}
		if _, dup := c.byID[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", tpl.ID)
		}
		c.byID[tpl.ID] = i
	}
	return c, nil
}

// checkTemplate covers the cross-field rules the struct tags cannot express.
func checkTemplate(tpl domain.Template) error {
	for _, p := range tpl.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}
	}
	seen := make(map[string]bool, len(tpl.Fields))
	for _, f := range tpl.Fields {
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		if len(f.Options) > 0 && f.Kind != domain.FieldText {
			return fmt.Errorf("field %q: options are only valid on text fields", f.Name)
		}
		if f.MinLen < 0 || f.MaxLen < 0 {
			return fmt.Errorf("field %q: negative length bound", f.Name)
		}
		if f.MaxLen > 0 && f.MinLen > f.MaxLen {
			return fmt.Errorf("field %q: min_len exceeds max_len", f.Name)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("field %q: min exceeds max", f.Name)
		}
	}
	return nil
}

// Get resolves a template by id. Returns domain.ErrTemplateNotFound for
// unknown ids.
func (c *Catalog) Get(id string) (domain.Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Template{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}
	return c.templates[i], nil
}

// Has reports whether id exists in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns all template ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))
	for i, tpl := range c.templates {
		ids[i] = tpl.ID
	}
	return ids
}

// Templates returns the templates in declaration order. Callers must treat
// the result as read-only.
func (c *Catalog) Templates() []domain.Template {
	return c.templates
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
