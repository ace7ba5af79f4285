package samples

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/curator/pkg/errors"
)

// ExternalReference links a sample to a record held elsewhere.
type ExternalReference struct {
	// Target URL, never empty
	URL string `json:"url" yaml:"url"`
	// Sorted unique data-use ontology codes
	Duo []string `json:"duo,omitempty" yaml:"duo,omitempty"`
}

// NewExternalReference builds a normalized external reference.
func NewExternalReference(url string, duo ...string) (ExternalReference, error) {
	r := ExternalReference{URL: strings.TrimSpace(url), Duo: normalizeSet(duo)}
	if err := r.Validate(); err != nil {
		return ExternalReference{}, err
	}
	return r, nil
}

// Validate reports whether the reference is well formed.
func (r ExternalReference) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.NewValidationError("url", r.URL, "external reference url must not be empty")
	}
	return nil
}

// Normalize returns a copy with a trimmed URL and canonical code set.
func (r ExternalReference) Normalize() ExternalReference {
	return ExternalReference{URL: strings.TrimSpace(r.URL), Duo: normalizeSet(r.Duo)}
}

// CompareReferences orders references by URL then codes.
func CompareReferences(a, b ExternalReference) int {
	if c := cmp.Compare(a.URL, b.URL); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.Duo), len(b.Duo)); c != 0 {
		return c
	}
	return slices.Compare(a.Duo, b.Duo)
}

// Equal reports whether two references are identical.
func (r ExternalReference) Equal(o ExternalReference) bool {
	return CompareReferences(r, o) == 0
}

// Key returns a canonical encoding used for set membership and hashing.
func (r ExternalReference) Key() string {
	return r.URL + "\x00" + strings.Join(r.Duo, "\x1f")
}

// String renders the reference.
func (r ExternalReference) String() string {
	if len(r.Duo) == 0 {
		return r.URL
	}
	return r.URL + " (" + strings.Join(r.Duo, ", ") + ")"
}

// SortReferences returns a sorted copy of refs with duplicates removed.
func SortReferences(refs []ExternalReference) []ExternalReference {
	out := make([]ExternalReference, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Normalize())
	}
	slices.SortFunc(out, CompareReferences)
	return slices.CompactFunc(out, func(a, b ExternalReference) bool { return CompareReferences(a, b) == 0 })
}
