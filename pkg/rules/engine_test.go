package rules_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/ontology"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/reconciler"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/store"
)

const (
	liverCode = "UBERON:0002107"
	liverIRI  = "http://purl.obolibrary.org/obo/UBERON_0002107"
	deadIRI   = "http://dead.example.org/term/1"
	cellIRI   = "http://purl.obolibrary.org/obo/CL_0000000"
)

func dirtySample(t *testing.T) samples.Sample {
	t.Helper()
	s, err := samples.New("SAMEA100", "dirty", []samples.Attribute{
		samples.MustAttribute("sex", "N/A"),
		samples.MustAttribute("temperature", "4", samples.WithUnit("Celcius")),
		samples.MustAttribute("organism", "Homo sapiens", samples.WithIRIs("9606")),
		samples.MustAttribute("description", "A  B\t\n\"C\""),
		samples.MustAttribute("phenotype", "lean", samples.WithUnit("yes/no")),
		samples.MustAttribute("age", "10", samples.WithUnit("years")),
	}, nil)
	require.NoError(t, err)
	return s
}

func fakeLookup(resolveErr error) ontology.Lookup {
	return ontology.LookupFunc{
		Resolve: func(_ context.Context, code string) (string, bool, error) {
			if resolveErr != nil {
				return "", false, resolveErr
			}
			if code == liverCode {
				return liverIRI, true, nil
			}
			return "", false, nil
		},
		Validate: func(_ context.Context, iri string) (bool, error) {
			return iri != deadIRI, nil
		},
	}
}

func newEngine(t *testing.T, p store.Persister, opts ...rules.Option) *rules.Engine {
	t.Helper()
	e, err := rules.NewEngine(p, opts...)
	require.NoError(t, err)
	return e
}

func TestEngineNormalization(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	tracker := provenance.NewTracker(true)
	e := newEngine(t, st, rules.WithTracker(tracker))

	out, err := e.Curate(ctx, dirtySample(t))
	require.NoError(t, err)
	assert.Equal(t, rules.PhaseDone, out.Phase)
	assert.Equal(t, 6, out.Committed)
	assert.Len(t, out.Links, 6)
	assert.Equal(t, 6, st.Count())

	want := []samples.Attribute{
		samples.MustAttribute("age", "10", samples.WithUnit("year")),
		samples.MustAttribute("description", "A B C"),
		samples.MustAttribute("organism", "Homo sapiens", samples.WithIRIs("http://purl.obolibrary.org/obo/NCBITaxon_9606")),
		samples.MustAttribute("phenotype", "lean"),
		samples.MustAttribute("temperature", "4", samples.WithUnit("Celsius")),
	}
	if diff := cmp.Diff(want, out.Sample.Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	entries := tracker.FindBySample("SAMEA100")
	require.Len(t, entries, 6)
	assert.Equal(t, rules.CharacterCleanup, entries[0].Rule)
	assert.Len(t, tracker.FindByRule(rules.UnitCanonicalization), 3)

	// A normalized sample is a fixpoint.
	again, err := e.Curate(ctx, out.Sample)
	require.NoError(t, err)
	assert.Zero(t, again.Committed)
	assert.True(t, again.Sample.Equal(out.Sample))
}

func TestEngineReplayMatchesOutcome(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e := newEngine(t, st)

	original := dirtySample(t)
	out, err := e.Curate(ctx, original)
	require.NoError(t, err)

	links, err := st.Links(ctx, original.Accession)
	require.NoError(t, err)

	// Reverse the history to show order does not matter.
	reversed := make([]curations.Link, len(links))
	for i, l := range links {
		reversed[len(links)-1-i] = l
	}
	result, err := reconciler.ApplyAll(ctx, original, reversed)
	require.NoError(t, err)
	assert.True(t, result.IsComplete())
	assert.Equal(t, out.Sample.Attributes, result.Sample.Attributes)
}

func TestEngineOntology(t *testing.T) {
	ctx := context.Background()
	validator, err := ontology.NewValidator(nil, nil)
	require.NoError(t, err)

	s, err := samples.New("SAMEA200", "", []samples.Attribute{
		samples.MustAttribute("tissue", "liver", samples.WithIRIs(liverCode), samples.WithUnit("g")),
		samples.MustAttribute("cell type", "stem", samples.WithIRIs(deadIRI, cellIRI)),
		samples.MustAttribute("disease", "none given", samples.WithIRIs("MONDO:0000001")),
	}, nil)
	require.NoError(t, err)

	e := newEngine(t, store.NewMemory(), rules.WithOntology(rules.DefaultOntology(fakeLookup(nil), validator)...))
	out, err := e.Curate(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Committed)

	want := []samples.Attribute{
		samples.MustAttribute("cell type", "stem", samples.WithIRIs(cellIRI)),
		samples.MustAttribute("disease", "none given", samples.WithIRIs("MONDO:0000001")),
		samples.MustAttribute("tissue", "liver", samples.WithIRIs(liverIRI), samples.WithUnit("g")),
	}
	if diff := cmp.Diff(want, out.Sample.Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineOntologyErrors(t *testing.T) {
	ctx := context.Background()
	s, err := samples.New("SAMEA300", "", []samples.Attribute{
		samples.MustAttribute("sex", "unknown"),
		samples.MustAttribute("tissue", "liver", samples.WithIRIs(liverCode)),
	}, nil)
	require.NoError(t, err)

	t.Run("inconclusive lookup skips", func(t *testing.T) {
		lookupErr := errors.NewLookupError("resolve", liverCode, errors.ErrProviderUnavailable)
		e := newEngine(t, store.NewMemory(), rules.WithOntology(rules.DefaultOntology(fakeLookup(lookupErr), nil)...))
		out, err := e.Curate(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Committed)
		assert.Equal(t, []string{liverCode}, out.Sample.Attributes[0].IRIs)
	})

	t.Run("other failures abort with partial count", func(t *testing.T) {
		boom := fmt.Errorf("ontology client misconfigured")
		e := newEngine(t, store.NewMemory(), rules.WithOntology(rules.DefaultOntology(fakeLookup(boom), nil)...))
		out, err := e.Curate(ctx, s)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, rules.PhaseOntology, out.Phase)
		assert.Equal(t, 1, out.Committed)
	})
}

func TestEngineStoreFailure(t *testing.T) {
	failing := store.PersisterFunc(func(_ context.Context, sample string, _ curations.Curation, _ string) (curations.Link, error) {
		return curations.Link{}, fmt.Errorf("disk full")
	})
	e := newEngine(t, failing)

	out, err := e.Curate(context.Background(), dirtySample(t))
	require.Error(t, err)
	assert.True(t, errors.IsStoreError(err))
	assert.Zero(t, out.Committed)
	assert.Equal(t, rules.PhaseRules, out.Phase)
	assert.True(t, out.Sample.Equal(dirtySample(t)))
}

func TestEngineConvergenceGuard(t *testing.T) {
	flip := rules.ForEach("flip", "", func(_ context.Context, _ samples.Sample, a samples.Attribute) (*curations.Curation, error) {
		next := "b"
		if a.Value == "b" {
			next = "a"
		}
		c, err := curations.Replace(a, samples.MustAttribute(a.Type, next))
		return &c, err
	})

	e := newEngine(t, store.NewMemory(), rules.WithNormalization(flip), rules.WithMaxIterations(5))
	s, err := samples.New("SAMEA400", "", []samples.Attribute{samples.MustAttribute("x", "a")}, nil)
	require.NoError(t, err)

	out, err := e.Curate(context.Background(), s)
	var convErr *errors.ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 5, convErr.Iterations)
	assert.Equal(t, 5, out.Committed)
}

func TestEngineCommitHookAndCancel(t *testing.T) {
	var commits atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	e := newEngine(t, store.NewMemory(), rules.WithCommitHook(func(_ context.Context, c rules.Commit) {
		assert.Equal(t, "SAMEA100", c.Sample)
		assert.Equal(t, rules.PhaseRules, c.Phase)
		commits.Add(1)
		cancel()
	}))

	out, err := e.Curate(ctx, dirtySample(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, out.Committed)
	assert.Equal(t, int32(1), commits.Load())
}

func TestNewEngineValidation(t *testing.T) {
	_, err := rules.NewEngine(nil)
	assert.Error(t, err)

	_, err = rules.NewEngine(store.NewMemory(), rules.WithDomain(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = rules.NewEngine(store.NewMemory(), rules.WithMaxIterations(0))
	assert.True(t, errors.IsValidationError(err))

	e, err := rules.NewEngine(store.NewMemory(), rules.WithDomain("self.test"))
	require.NoError(t, err)
	assert.Equal(t, "self.test", e.Domain())
	assert.Len(t, e.Normalization(), 5)
	assert.Empty(t, e.Ontology())
}

func TestEngineKeepsCommitsOnPanic(t *testing.T) {
	explode := rules.ForEach("explode", "", func(context.Context, samples.Sample, samples.Attribute) (*curations.Curation, error) {
		panic("rule bug")
	})
	st := store.NewMemory()
	e := newEngine(t, st, rules.WithNormalization(rules.NewUnitCanonicalization(), explode))

	s, err := samples.New("SAMEA7", "", []samples.Attribute{
		samples.MustAttribute("temperature", "4", samples.WithUnit("Celcius")),
	}, nil)
	require.NoError(t, err)

	out, err := e.Curate(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule bug")
	assert.Equal(t, 1, out.Committed)
	assert.Equal(t, rules.PhaseRules, out.Phase)
	assert.Len(t, out.Links, 1)
	assert.Equal(t, 1, st.Count())
}
