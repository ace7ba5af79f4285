package reconciler

import (
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/samples"
)

// Apply applies a single link to s. Either every precondition holds and the
// returned sample carries the edit, or s is untouched and a
// *errors.ConflictError describes what diverged.
func Apply(s samples.Sample, link curations.Link) (samples.Sample, error) {
	return ApplyCuration(s, link.Curation, link.Created)
}

// ApplyCuration applies c to s as if it had been stored at the given time.
// The update time of the result is the later of s.Update and at.
func ApplyCuration(s samples.Sample, c curations.Curation, at utc.Time) (samples.Sample, error) {
	if err := Check(s, c); err != nil {
		return s, err
	}

	attrs := slices.DeleteFunc(slices.Clone(s.Attributes), func(a samples.Attribute) bool {
		return slices.ContainsFunc(c.AttributesPre, a.Equal)
	})
	attrs = append(attrs, c.AttributesPost...)

	refs := slices.DeleteFunc(slices.Clone(s.ExternalReferences), func(r samples.ExternalReference) bool {
		return slices.ContainsFunc(c.ExternalReferencesPre, r.Equal)
	})
	refs = append(refs, c.ExternalReferencesPost...)

	out := s.WithAttributes(attrs).WithExternalReferences(refs)
	if at.Time.After(s.Update.Time) {
		out = out.WithUpdate(at)
	}
	return out, nil
}

// Check reports whether c can be applied to s: every pre entry must be on the
// sample and no post entry may already be there.
func Check(s samples.Sample, c curations.Curation) error {
	var missing, present []string
	for _, a := range c.AttributesPre {
		if !s.HasAttribute(a) {
			missing = append(missing, a.String())
		}
	}
	for _, a := range c.AttributesPost {
		if s.HasAttribute(a) {
			present = append(present, a.String())
		}
	}
	for _, r := range c.ExternalReferencesPre {
		if !s.HasExternalReference(r) {
			missing = append(missing, r.String())
		}
	}
	for _, r := range c.ExternalReferencesPost {
		if s.HasExternalReference(r) {
			present = append(present, r.String())
		}
	}
	if len(missing) == 0 && len(present) == 0 {
		return nil
	}
	return &errors.ConflictError{
		Sample:      s.Accession,
		Curation:    c.Hash,
		MissingPre:  missing,
		PresentPost: present,
	}
}
