// Package curations defines the set-based edits applied to samples and the
// links that bind them to a sample and an authority.
package curations

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"

	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/samples"
)

// Curation replaces the pre sets of a sample with the post sets. Its Hash is
// derived from content only, so equal edits share an identity.
type Curation struct {
	Hash                   string                      `json:"hash" yaml:"hash"`
	AttributesPre          []samples.Attribute         `json:"attributesPre" yaml:"attributesPre"`
	AttributesPost         []samples.Attribute         `json:"attributesPost" yaml:"attributesPost"`
	ExternalReferencesPre  []samples.ExternalReference `json:"externalReferencesPre" yaml:"externalReferencesPre"`
	ExternalReferencesPost []samples.ExternalReference `json:"externalReferencesPost" yaml:"externalReferencesPost"`
}

// Option configures optional parts of a curation.
type Option func(*Curation)

// WithExternalReferences sets the external reference pre and post sets.
func WithExternalReferences(pre, post []samples.ExternalReference) Option {
	return func(c *Curation) {
		c.ExternalReferencesPre = pre
		c.ExternalReferencesPost = post
	}
}

// New builds a validated curation with canonical sets and its content hash.
func New(pre, post []samples.Attribute, opts ...Option) (Curation, error) {
	c := Curation{AttributesPre: pre, AttributesPost: post}
	for _, opt := range opts {
		opt(&c)
	}
	c = c.normalize()
	if err := c.Validate(); err != nil {
		return Curation{}, err
	}
	c.Hash = c.ComputeHash()
	return c, nil
}

// Replace is the curation that swaps old for replacement.
func Replace(old, replacement samples.Attribute) (Curation, error) {
	return New([]samples.Attribute{old}, []samples.Attribute{replacement})
}

// Remove is the curation that deletes old.
func Remove(old samples.Attribute) (Curation, error) {
	return New([]samples.Attribute{old}, nil)
}

// Add is the curation that introduces attr.
func Add(attr samples.Attribute) (Curation, error) {
	return New(nil, []samples.Attribute{attr})
}

// Validate checks every member and rejects empty or no-op curations.
func (c Curation) Validate() error {
	for _, set := range [][]samples.Attribute{c.AttributesPre, c.AttributesPost} {
		for _, a := range set {
			if err := a.Validate(); err != nil {
				return err
			}
		}
	}
	for _, set := range [][]samples.ExternalReference{c.ExternalReferencesPre, c.ExternalReferencesPost} {
		for _, r := range set {
			if err := r.Validate(); err != nil {
				return err
			}
		}
	}

	if len(c.AttributesPre) == 0 && len(c.AttributesPost) == 0 &&
		len(c.ExternalReferencesPre) == 0 && len(c.ExternalReferencesPost) == 0 {
		return errors.NewValidationError("curation", nil, "curation must change something")
	}

	n := c.normalize()
	if slices.EqualFunc(n.AttributesPre, n.AttributesPost, samples.Attribute.Equal) &&
		slices.EqualFunc(n.ExternalReferencesPre, n.ExternalReferencesPost, samples.ExternalReference.Equal) {
		return errors.NewValidationError("curation", nil, "pre and post sets are identical")
	}
	return nil
}

// ComputeHash returns the SHA-256 content hash over the canonical sets.
func (c Curation) ComputeHash() string {
	n := c.normalize()
	h := sha256.New()
	section := func(name string, keys []string) {
		h.Write([]byte(name))
		h.Write([]byte{0x1e})
		for _, k := range keys {
			h.Write([]byte(k))
			h.Write([]byte{0x1d})
		}
	}
	section("attributesPre", attributeKeys(n.AttributesPre))
	section("attributesPost", attributeKeys(n.AttributesPost))
	section("externalReferencesPre", referenceKeys(n.ExternalReferencesPre))
	section("externalReferencesPost", referenceKeys(n.ExternalReferencesPost))
	return hex.EncodeToString(h.Sum(nil))
}

// IsRemoval reports whether the curation only deletes attributes.
func (c Curation) IsRemoval() bool {
	return len(c.AttributesPre) > 0 && len(c.AttributesPost) == 0 &&
		len(c.ExternalReferencesPre) == 0 && len(c.ExternalReferencesPost) == 0
}

func (c Curation) normalize() Curation {
	return Curation{
		Hash:                   c.Hash,
		AttributesPre:          samples.SortAttributes(c.AttributesPre),
		AttributesPost:         samples.SortAttributes(c.AttributesPost),
		ExternalReferencesPre:  samples.SortReferences(c.ExternalReferencesPre),
		ExternalReferencesPost: samples.SortReferences(c.ExternalReferencesPost),
	}
}

func attributeKeys(attrs []samples.Attribute) []string {
	keys := make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key()
	}
	return keys
}

func referenceKeys(refs []samples.ExternalReference) []string {
	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = r.Key()
	}
	return keys
}
