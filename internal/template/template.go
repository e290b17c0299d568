// Package template selects a store-specific parser for a receipt, falling
// back to the generic line-sequence engine when no store matches.
package template

import (
	"strings"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// Template is one store-specific parsing strategy. Matches is run against
// the header-region OCR only; Parse receives the full fragment sequence.
type Template interface {
	StoreName() string
	Keywords() []string
	Parse(frags []entity.Fragment) entity.Receipt
}

// Matches reports whether any of the template's keywords appear in the
// lowercased concatenation of the header fragments.
func Matches(t Template, header []entity.Fragment) bool {
	var b strings.Builder
	for i, f := range header {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(f.Text))
	}
	text := b.String()
	for _, k := range t.Keywords() {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Registry holds templates in registration order; the first match wins.
type Registry struct {
	templates []Template
}

func NewRegistry(templates ...Template) *Registry {
	return &Registry{templates: templates}
}

func (r *Registry) Register(t Template) {
	r.templates = append(r.templates, t)
}

// Match returns the first template whose keywords appear in the header, or
// nil when none do.
func (r *Registry) Match(header []entity.Fragment) Template {
	for _, t := range r.templates {
		if Matches(t, header) {
			return t
		}
	}
	return nil
}
