package rules

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/samples"
)

// Synonym renames attribute type Pre to Post.
type Synonym struct {
	Pre  string `yaml:"pre" json:"pre"`   // Type as submitted
	Post string `yaml:"post" json:"post"` // Preferred type
}

// SynonymFile is the on-disk layout of a type synonym rules file.
type SynonymFile struct {
	Synonyms []Synonym `yaml:"synonyms" json:"synonyms"`
}

// LoadTypeSynonyms reads a YAML rules file and builds the type-synonym rule.
func LoadTypeSynonyms(path string) (Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var file SynonymFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return NewTypeSynonyms(file.Synonyms)
}

// NewTypeSynonyms builds a rule that renames attribute types. Matching is
// exact. A type that is both renamed from and to would never settle, so such
// chains are rejected.
func NewTypeSynonyms(synonyms []Synonym) (Rule, error) {
	table := make(map[string]string, len(synonyms))
	for _, syn := range synonyms {
		if syn.Pre == "" || syn.Post == "" {
			return nil, errors.NewConfigError("rules.synonyms_file", "synonym pre and post must not be empty", nil)
		}
		if prev, ok := table[syn.Pre]; ok && prev != syn.Post {
			return nil, errors.NewConfigError("rules.synonyms_file", "conflicting synonyms for "+syn.Pre, nil)
		}
		table[syn.Pre] = syn.Post
	}
	for pre, post := range table {
		if _, ok := table[post]; ok {
			return nil, errors.NewConfigError("rules.synonyms_file", "synonym target "+post+" of "+pre+" is itself renamed", nil)
		}
	}

	return ForEach(TypeSynonym, "Rename attribute types to their preferred synonym",
		func(_ context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			post, ok := table[a.Type]
			if !ok {
				return nil, nil
			}
			renamed := a.With()
			renamed.Type = post
			return replaceOrRemove(s, a, renamed)
		}), nil
}
