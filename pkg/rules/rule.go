// Package rules proposes curations for samples. Rules are ordered values; the
// Engine asks them in turn and commits one proposal per iteration until a
// full pass proposes nothing.
package rules

import (
	"context"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/samples"
)

// Rule proposes at most one curation for a sample. A nil curation with a nil
// error means the rule has nothing to change.
type Rule interface {
	// Name identifies the rule in logs and provenance
	Name() string

	// TryApply returns the next curation this rule wants applied to s
	TryApply(ctx context.Context, s samples.Sample) (*curations.Curation, error)
}

// Describer is implemented by rules that carry a human readable description.
type Describer interface {
	Description() string
}

// AttributeRule inspects one attribute of a sample.
type AttributeRule func(ctx context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error)

type attributeRule struct {
	name        string
	description string
	fn          AttributeRule
}

// ForEach turns an AttributeRule into a Rule that walks the sample's
// attributes in order and returns the first proposal.
func ForEach(name, description string, fn AttributeRule) Rule {
	return &attributeRule{name: name, description: description, fn: fn}
}

func (r *attributeRule) Name() string        { return r.name }
func (r *attributeRule) Description() string { return r.description }

func (r *attributeRule) TryApply(ctx context.Context, s samples.Sample) (*curations.Curation, error) {
	for _, a := range s.Attributes {
		c, err := r.fn(ctx, s, a)
		if err != nil || c != nil {
			return c, err
		}
	}
	return nil, nil
}

// Describe returns the rule's description, or its name when it has none.
func Describe(r Rule) string {
	if d, ok := r.(Describer); ok {
		return d.Description()
	}
	return r.Name()
}

// replaceOrRemove proposes swapping old for replacement. When the sample
// already carries replacement, old is a duplicate and is removed instead.
// A replacement equal to old proposes nothing.
func replaceOrRemove(s samples.Sample, old, replacement samples.Attribute) (*curations.Curation, error) {
	var (
		c   curations.Curation
		err error
	)
	replacement = replacement.Normalize()
	if replacement.Equal(old) {
		return nil, nil
	}
	if s.HasAttribute(replacement) {
		c, err = curations.Remove(old)
	} else {
		c, err = curations.Replace(old, replacement)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func remove(old samples.Attribute) (*curations.Curation, error) {
	c, err := curations.Remove(old)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
