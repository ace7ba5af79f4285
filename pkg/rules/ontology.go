package rules

import (
	"context"
	"slices"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/ontology"
	"github.com/agentstation/curator/pkg/samples"
)

// DefaultOntology returns the ontology reconciliation chain.
func DefaultOntology(lookup ontology.Lookup, validator *ontology.Validator) []Rule {
	return []Rule{NewOntologyReconciliation(lookup, validator)}
}

// NewOntologyReconciliation checks attribute IRIs against the ontology
// service. A shortcode that resolves replaces the whole IRI set with the
// resolved IRI; an IRI that needs validation and is unreachable is dropped.
// Inconclusive lookups leave the IRI alone for this pass.
func NewOntologyReconciliation(lookup ontology.Lookup, validator *ontology.Validator) Rule {
	if lookup == nil {
		lookup = ontology.LookupFunc{}
	}
	return ForEach(OntologyReconciliation, "Resolve ontology shortcodes and drop unreachable IRIs",
		func(ctx context.Context, s samples.Sample, a samples.Attribute) (*curations.Curation, error) {
			logger := logging.FromContext(ctx)
			for _, iri := range a.IRIs {
				logger.Trace().Str("iri", iri).Msg("Checking IRI")

				if ontology.IsShortcode(iri) {
					resolved, found, err := lookup.ResolveShortcode(ctx, iri)
					if errors.IsLookupError(err) {
						logger.Debug().Err(err).Str("iri", iri).Msg("Shortcode lookup inconclusive, skipping")
						continue
					}
					if err != nil {
						return nil, err
					}
					if !found || resolved == "" {
						continue
					}
					logger.Trace().Str("iri", iri).Str("resolved", resolved).Msg("Mapped shortcode")
					return replaceOrRemove(s, a, a.With(samples.WithIRIs(resolved)))
				}

				if !validator.NeedsValidation(iri) {
					continue
				}
				reachable, err := lookup.ValidateReachable(ctx, iri)
				if errors.IsLookupError(err) {
					logger.Debug().Err(err).Str("iri", iri).Msg("IRI validation inconclusive, skipping")
					continue
				}
				if err != nil {
					return nil, err
				}
				if reachable {
					continue
				}
				logger.Debug().Str("iri", iri).Msg("Dropping unreachable IRI")
				kept := slices.DeleteFunc(slices.Clone(a.IRIs), func(x string) bool { return x == iri })
				return replaceOrRemove(s, a, a.With(samples.WithIRIs(kept...)))
			}
			return nil, nil
		})
}
