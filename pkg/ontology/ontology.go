// Package ontology resolves ontology shortcodes to IRIs and checks whether
// IRIs are reachable.
package ontology

import (
	"context"
	"regexp"
)

// Lookup is the ontology collaborator used by the reconciliation rules.
//
// A term that does not exist is reported as found == false (or reachable ==
// false) with a nil error. Errors are reserved for failures to get an answer:
// *errors.LookupError for transient service problems, anything else for
// conditions that should abort the caller.
type Lookup interface {
	ResolveShortcode(ctx context.Context, code string) (iri string, found bool, err error)
	ValidateReachable(ctx context.Context, iri string) (bool, error)
}

var shortcodePattern = regexp.MustCompile(`^[A-Za-z]+[_:\-][0-9]+$`)

// IsShortcode reports whether s looks like a compact term identifier such as
// UBERON:0002107 or NCBITaxon_9606.
func IsShortcode(s string) bool {
	return shortcodePattern.MatchString(s)
}

// LookupFunc adapts a pair of functions to the Lookup interface.
type LookupFunc struct {
	Resolve  func(ctx context.Context, code string) (string, bool, error)
	Validate func(ctx context.Context, iri string) (bool, error)
}

// ResolveShortcode implements Lookup.
func (f LookupFunc) ResolveShortcode(ctx context.Context, code string) (string, bool, error) {
	if f.Resolve == nil {
		return "", false, nil
	}
	return f.Resolve(ctx, code)
}

// ValidateReachable implements Lookup. A nil Validate treats every IRI as reachable.
func (f LookupFunc) ValidateReachable(ctx context.Context, iri string) (bool, error) {
	if f.Validate == nil {
		return true, nil
	}
	return f.Validate(ctx, iri)
}
