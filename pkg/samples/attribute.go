// Package samples defines the immutable sample record the curator operates on.
package samples

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/curator/pkg/errors"
)

// Attribute is a single typed characteristic of a sample. Optional string
// fields use "" for absent, which sorts before every non-empty value.
type Attribute struct {
	// Attribute name, never empty
	Type string `json:"type" yaml:"type"`
	// Attribute value, may be empty
	Value string `json:"value" yaml:"value"`
	// Optional tag
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
	// Sorted unique ontology term IRIs
	IRIs []string `json:"iri,omitempty" yaml:"iri,omitempty"`
	// Optional unit of measure
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// AttributeOption configures optional attribute fields.
type AttributeOption func(*Attribute)

// WithTag sets the attribute tag.
func WithTag(tag string) AttributeOption {
	return func(a *Attribute) {
		a.Tag = strings.TrimSpace(tag)
	}
}

// WithIRIs sets the attribute IRIs. Blank entries are dropped.
func WithIRIs(iris ...string) AttributeOption {
	return func(a *Attribute) {
		a.IRIs = normalizeSet(iris)
	}
}

// WithUnit sets the attribute unit.
func WithUnit(unit string) AttributeOption {
	return func(a *Attribute) {
		a.Unit = strings.TrimSpace(unit)
	}
}

// NewAttribute builds a normalized attribute.
func NewAttribute(typ, value string, opts ...AttributeOption) (Attribute, error) {
	a := Attribute{
		Type:  strings.TrimSpace(typ),
		Value: strings.TrimSpace(value),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if err := a.Validate(); err != nil {
		return Attribute{}, err
	}
	return a, nil
}

// MustAttribute is NewAttribute for literals known to be valid. It panics on error.
func MustAttribute(typ, value string, opts ...AttributeOption) Attribute {
	a, err := NewAttribute(typ, value, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate reports whether the attribute is well formed.
func (a Attribute) Validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return errors.NewValidationError("type", a.Type, "attribute type must not be empty")
	}
	return nil
}

// Normalize returns a copy with trimmed fields and a canonical IRI set.
func (a Attribute) Normalize() Attribute {
	return Attribute{
		Type:  strings.TrimSpace(a.Type),
		Value: strings.TrimSpace(a.Value),
		Tag:   strings.TrimSpace(a.Tag),
		IRIs:  normalizeSet(a.IRIs),
		Unit:  strings.TrimSpace(a.Unit),
	}
}

// With returns a copy of a with the options applied.
func (a Attribute) With(opts ...AttributeOption) Attribute {
	b := a
	b.IRIs = slices.Clone(a.IRIs)
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Compare orders attributes by type, value, tag, IRIs (size first, then
// element-wise) and unit.
func Compare(a, b Attribute) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Tag, b.Tag); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.IRIs), len(b.IRIs)); c != 0 {
		return c
	}
	if c := slices.Compare(a.IRIs, b.IRIs); c != 0 {
		return c
	}
	return cmp.Compare(a.Unit, b.Unit)
}

// Equal reports whether two attributes are identical.
func (a Attribute) Equal(b Attribute) bool {
	return Compare(a, b) == 0
}

// Key returns a canonical encoding used for set membership and hashing.
func (a Attribute) Key() string {
	var sb strings.Builder
	writeField(&sb, a.Type)
	writeField(&sb, a.Value)
	writeField(&sb, a.Tag)
	writeField(&sb, strings.Join(a.IRIs, "\x1f"))
	writeField(&sb, a.Unit)
	return sb.String()
}

// String renders the attribute for logs and CLI output.
func (a Attribute) String() string {
	var sb strings.Builder
	sb.WriteString(a.Type)
	sb.WriteString("=")
	sb.WriteString(a.Value)
	if a.Unit != "" {
		sb.WriteString(" [")
		sb.WriteString(a.Unit)
		sb.WriteString("]")
	}
	if a.Tag != "" {
		sb.WriteString(" #")
		sb.WriteString(a.Tag)
	}
	if len(a.IRIs) > 0 {
		sb.WriteString(" <")
		sb.WriteString(strings.Join(a.IRIs, ", "))
		sb.WriteString(">")
	}
	return sb.String()
}

// SortAttributes returns a sorted copy of attrs with duplicates removed.
func SortAttributes(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Normalize())
	}
	slices.SortFunc(out, Compare)
	return slices.CompactFunc(out, func(a, b Attribute) bool { return Compare(a, b) == 0 })
}

func writeField(sb *strings.Builder, s string) {
	sb.WriteString(s)
	sb.WriteByte(0)
}

// normalizeSet trims, drops blanks, sorts and dedups. Nil for an empty set.
func normalizeSet(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
