package rules

import (
	"context"
	"slices"
	"strconv"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/samples"
)

// Rule names.
const (
	CharacterCleanup       = "character-cleanup"
	EmptyRemoval           = "empty-removal"
	NotApplicableRemoval   = "not-applicable-removal"
	UnitCanonicalization   = "unit-canonicalization"
	OrganismTaxon          = "organism-taxon"
	TypeSynonym            = "type-synonym"
	OntologyReconciliation = "ontology-reconciliation"
)

// NCBITaxonPrefix is prepended to bare taxonomy ids on organism attributes.
const NCBITaxonPrefix = "http://purl.obolibrary.org/obo/NCBITaxon_"

// notApplicable lists values that carry no information.
var notApplicable = []string{
	"n/a", "na", "n.a", "none", "unknown", "--", ".", "null", "missing",
	"[not reported]", "[not requested]", "not applicable", "not_applicable",
	"not collected", "not specified", "not known", "not reported",
	"missing: not provided",
}

// DefaultNormalization returns the normalization chain in priority order.
func DefaultNormalization() []Rule {
	return []Rule{
		NewCharacterCleanup(),
		NewEmptyRemoval(),
		NewNotApplicableRemoval(),
		NewUnitCanonicalization(),
		NewOrganismTaxon(),
	}
}

// NewCharacterCleanup rewrites attribute types and values through CleanString.
// Attributes that would clean to an empty type or value are left to
// the empty-removal rule.
func NewCharacterCleanup() Rule {
	return ForEach(CharacterCleanup, "Strip quotes, markup and unsafe characters from types and values",
		func(_ context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			typ, value := CleanString(a.Type), CleanString(a.Value)
			if typ == "" || value == "" {
				return nil, nil
			}
			if typ == a.Type && value == a.Value {
				return nil, nil
			}
			cleaned := a.With()
			cleaned.Type, cleaned.Value = typ, value
			return replaceOrRemove(s, a, cleaned)
		})
}

// NewEmptyRemoval deletes attributes whose type or value cleans to nothing.
func NewEmptyRemoval() Rule {
	return ForEach(EmptyRemoval, "Remove attributes whose cleaned type or value is empty",
		func(_ context.Context, _ samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			if CleanString(a.Type) == "" || CleanString(a.Value) == "" {
				return remove(a)
			}
			return nil, nil
		})
}

// NewNotApplicableRemoval deletes attributes whose value says "not applicable"
// in one of its many spellings.
func NewNotApplicableRemoval() Rule {
	vocabulary := make(map[string]struct{}, len(notApplicable))
	for _, v := range notApplicable {
		vocabulary[fold(v)] = struct{}{}
	}
	return ForEach(NotApplicableRemoval, "Remove attributes whose value is a not-applicable synonym",
		func(_ context.Context, _ samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			if _, ok := vocabulary[fold(a.Value)]; ok {
				return remove(a)
			}
			return nil, nil
		})
}

// IsNotApplicable reports whether value is a not-applicable synonym.
func IsNotApplicable(value string) bool {
	return slices.Contains(notApplicable, fold(value))
}

// NewUnitCanonicalization maps unit spellings to their canonical name.
func NewUnitCanonicalization() Rule {
	return ForEach(UnitCanonicalization, "Rewrite unit synonyms to a canonical unit",
		func(_ context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			if a.Unit == "" {
				return nil, nil
			}
			unit := CanonicalUnit(a.Unit)
			if unit == a.Unit {
				return nil, nil
			}
			return replaceOrRemove(s, a, a.With(samples.WithUnit(unit)))
		})
}

// NewOrganismTaxon promotes a bare NCBI taxonomy id on an organism attribute
// to the full taxon IRI.
func NewOrganismTaxon() Rule {
	organism := fold("organism")
	return ForEach(OrganismTaxon, "Expand numeric organism IRIs to NCBI taxon IRIs",
		func(_ context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			if fold(a.Type) != organism || len(a.IRIs) != 1 {
				return nil, nil
			}
			id, err := strconv.ParseUint(a.IRIs[0], 10, 64)
			if err != nil {
				return nil, nil
			}
			return replaceOrRemove(s, a, a.With(samples.WithIRIs(TaxonIRI(id))))
		})
}

// TaxonIRI returns the NCBI taxonomy IRI for id.
func TaxonIRI(id uint64) string {
	return NCBITaxonPrefix + strconv.FormatUint(id, 10)
}
