package samples

import (
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/curator/pkg/errors"
)

// Sample is the consumed view of a biological sample record. Values are never
// mutated in place; the With* methods return modified copies.
type Sample struct {
	// Sample identifier
	Accession string `json:"accession" yaml:"accession"`
	// Human readable name
	Name string `json:"name" yaml:"name"`
	// Owning domain
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
	// Public release time
	Release utc.Time `json:"release" yaml:"release"`
	// Last modification time
	Update utc.Time `json:"update" yaml:"update"`
	// Sorted unique attributes
	Attributes []Attribute `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
	// Sorted unique external references
	ExternalReferences []ExternalReference `json:"externalReferences,omitempty" yaml:"externalReferences,omitempty"`
}

// New builds a sample with canonical attribute and reference sets.
func New(accession, name string, attrs []Attribute, refs []ExternalReference) (Sample, error) {
	s := Sample{
		Accession:          accession,
		Name:               name,
		Attributes:         SortAttributes(attrs),
		ExternalReferences: SortReferences(refs),
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// Validate checks the accession and every attribute and reference.
func (s Sample) Validate() error {
	if s.Accession == "" {
		return errors.NewValidationError("accession", s.Accession, "sample accession must not be empty")
	}
	for _, a := range s.Attributes {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	for _, r := range s.ExternalReferences {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Normalize returns a copy with canonical attribute and reference sets.
func (s Sample) Normalize() Sample {
	s.Attributes = SortAttributes(s.Attributes)
	s.ExternalReferences = SortReferences(s.ExternalReferences)
	return s
}

// WithAttributes returns a copy with the given attribute set.
func (s Sample) WithAttributes(attrs []Attribute) Sample {
	s.Attributes = SortAttributes(attrs)
	return s
}

// WithExternalReferences returns a copy with the given reference set.
func (s Sample) WithExternalReferences(refs []ExternalReference) Sample {
	s.ExternalReferences = SortReferences(refs)
	return s
}

// WithUpdate returns a copy with the given update time.
func (s Sample) WithUpdate(t utc.Time) Sample {
	s.Update = t
	return s
}

// HasAttribute reports whether the sample carries a.
func (s Sample) HasAttribute(a Attribute) bool {
	return slices.ContainsFunc(s.Attributes, a.Equal)
}

// HasExternalReference reports whether the sample carries r.
func (s Sample) HasExternalReference(r ExternalReference) bool {
	return slices.ContainsFunc(s.ExternalReferences, r.Equal)
}

// Equal reports structural equality.
func (s Sample) Equal(o Sample) bool {
	return s.Accession == o.Accession &&
		s.Name == o.Name &&
		s.Domain == o.Domain &&
		s.Release.Time.Equal(o.Release.Time) &&
		s.Update.Time.Equal(o.Update.Time) &&
		slices.EqualFunc(s.Attributes, o.Attributes, Attribute.Equal) &&
		slices.EqualFunc(s.ExternalReferences, o.ExternalReferences, ExternalReference.Equal)
}
