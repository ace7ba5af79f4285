package curator

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/executor"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/ontology"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/sources"
	"github.com/agentstation/curator/pkg/store"
)

func mustSample(t *testing.T, acc string, attrs ...samples.Attribute) samples.Sample {
	t.Helper()
	s, err := samples.New(acc, acc, attrs, nil)
	require.NoError(t, err)
	return s
}

func testPool() executor.Config {
	return executor.Config{CoreWorkers: 2, MaxWorkers: 4, QueueSize: 8, ScaleInterval: 5 * time.Millisecond}
}

func brokenLookup() ontology.Lookup {
	return ontology.LookupFunc{
		Resolve: func(_ context.Context, code string) (string, bool, error) {
			switch code {
			case "UBERON:0002107":
				return "http://purl.obolibrary.org/obo/UBERON_0002107", true, nil
			case "BAD:1":
				return "", false, fmt.Errorf("ontology service returned garbage for %s", code)
			}
			return "", false, nil
		},
	}
}

func TestRunPartialFailure(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	s1 := mustSample(t, "SAMEA1",
		samples.MustAttribute("sex", "N/A"),
		samples.MustAttribute("tissue", "liver", samples.WithIRIs("UBERON:0002107")),
	)
	s2 := mustSample(t, "SAMEA2",
		samples.MustAttribute("temperature", "4", samples.WithUnit("Celcius")),
		samples.MustAttribute("tissue", "kidney", samples.WithIRIs("BAD:1")),
	)
	s3 := mustSample(t, "SAMEA3",
		samples.MustAttribute("organism", "Homo sapiens", samples.WithIRIs("9606")),
	)

	st := store.NewMemory()
	var md bytes.Buffer
	tracker := provenance.NewTracker(true)
	c, err := New(
		WithDomain("self.test"),
		WithStore(st),
		WithOntology(brokenLookup(), nil),
		WithPool(testPool()),
		WithTracker(tracker),
		WithNotifier(report.NewMarkdownNotifier(&md)),
	)
	require.NoError(t, err)

	var (
		commits    atomic.Int32
		mu         sync.Mutex
		failedIDs  []string
		failedErrs []error
	)
	c.OnCurationCommitted(func(rules.Commit) { commits.Add(1) })
	c.OnSampleFailed(func(accession string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failedIDs = append(failedIDs, accession)
		failedErrs = append(failedErrs, err)
	})

	rep, err := c.Run(ctx, sources.NewMemory(s1, s2, s3), sources.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.SamplesProcessed)
	assert.Equal(t, 1, rep.Failures)
	assert.Equal(t, []string{"SAMEA2"}, rep.FailedIDs)
	assert.Equal(t, 4, rep.CurationsCommitted)
	assert.Equal(t, "self.test", rep.Domain)
	assert.Equal(t, int32(4), commits.Load())

	require.Equal(t, []string{"SAMEA2"}, failedIDs)
	var taskErr *errors.TaskError
	require.ErrorAs(t, failedErrs[0], &taskErr)
	assert.Equal(t, string(rules.PhaseOntology), taskErr.Phase)
	assert.Equal(t, 1, taskErr.Committed)

	for acc, want := range map[string]int{"SAMEA1": 2, "SAMEA2": 1, "SAMEA3": 1} {
		links, err := st.Links(ctx, acc)
		require.NoError(t, err)
		assert.Len(t, links, want, acc)
		assert.Len(t, tracker.FindBySample(acc), want, acc)
	}

	assert.Contains(t, md.String(), "SAMEA2")
	assert.True(t, tl.Contains("Sample curation failed"))
	assert.True(t, tl.Contains("Curation run complete"))
	assert.True(t, tl.Contains(rep.RunID))
}

func TestRunRecoversPanics(t *testing.T) {
	explode := rules.ForEach("explode", "", func(_ context.Context, s samples.Sample, _ samples.Attribute) (*curations.Curation, error) {
		if s.Accession == "SAMEA2" {
			panic("rule bug")
		}
		return nil, nil
	})

	c, err := New(WithPool(testPool()), WithExtraRules(explode))
	require.NoError(t, err)

	src := sources.NewMemory(
		mustSample(t, "SAMEA1", samples.MustAttribute("sex", "female")),
		mustSample(t, "SAMEA2", samples.MustAttribute("sex", "male")),
	)
	rep, err := c.Run(context.Background(), src, sources.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"SAMEA2"}, rep.FailedIDs)
	assert.Equal(t, 2, rep.SamplesProcessed)
}

func TestRunKeepsCommitsOfPanickedSample(t *testing.T) {
	explode := rules.ForEach("explode", "", func(context.Context, samples.Sample, samples.Attribute) (*curations.Curation, error) {
		panic("rule bug")
	})

	st := store.NewMemory()
	c, err := New(WithStore(st), WithPool(testPool()), WithExtraRules(explode))
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		failed []error
	)
	c.OnSampleFailed(func(_ string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, err)
	})

	src := sources.NewMemory(mustSample(t, "SAMEA1",
		samples.MustAttribute("temperature", "4", samples.WithUnit("Celcius")),
	))
	rep, err := c.Run(context.Background(), src, sources.Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"SAMEA1"}, rep.FailedIDs)
	assert.Equal(t, 1, st.Count())
	assert.Equal(t, st.Count(), rep.CurationsCommitted)

	require.Len(t, failed, 1)
	var taskErr *errors.TaskError
	require.ErrorAs(t, failed[0], &taskErr)
	assert.Equal(t, string(rules.PhaseRules), taskErr.Phase)
	assert.Equal(t, 1, taskErr.Committed)
}

// cancelingSource yields its samples, waits for ready, then cancels the run.
type cancelingSource struct {
	samples []samples.Sample
	ready   func() bool
	cancel  context.CancelFunc
}

func (s cancelingSource) Samples(ctx context.Context, _ sources.Filter) iter.Seq2[samples.Sample, error] {
	return func(yield func(samples.Sample, error) bool) {
		for _, x := range s.samples {
			if !yield(x, nil) {
				return
			}
		}
		for !s.ready() {
			time.Sleep(time.Millisecond)
		}
		s.cancel()
		yield(samples.Sample{}, ctx.Err())
	}
}

func TestRunCanceledMidFeedReportsStartedSamples(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewMemory()
	c, err := New(WithStore(st), WithPool(testPool()))
	require.NoError(t, err)

	src := cancelingSource{
		samples: []samples.Sample{
			mustSample(t, "SAMEA1", samples.MustAttribute("temperature", "4", samples.WithUnit("Celcius"))),
			mustSample(t, "SAMEA2", samples.MustAttribute("sex", "N/A")),
		},
		ready:  func() bool { return st.Count() == 2 },
		cancel: cancel,
	}

	rep, err := c.Run(ctx, src, sources.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)

	assert.Equal(t, 2, rep.SamplesProcessed)
	assert.Equal(t, st.Count(), rep.CurationsCommitted)
	assert.Equal(t, len(rep.FailedIDs), rep.Failures)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := New(WithPool(testPool()))
	require.NoError(t, err)
	rep, err := c.Run(ctx, sources.NewMemory(mustSample(t, "SAMEA1")), sources.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Zero(t, rep.CurationsCommitted)
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	c, err := New()
	require.NoError(t, err)

	original := mustSample(t, "SAMEA9",
		samples.MustAttribute("temperature", "4", samples.WithUnit("celcius")),
		samples.MustAttribute("description", "<b>bold</b>"),
	)
	out, err := c.Curate(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Committed)

	result, err := c.Replay(ctx, original)
	require.NoError(t, err)
	assert.True(t, result.IsComplete())
	assert.Equal(t, out.Sample.Attributes, result.Sample.Attributes)
	assert.Equal(t, 2, result.Changeset().Summary.AttributesUpdated)
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithDomain(""))
	assert.Error(t, err)

	_, err = New(WithPool(executor.Config{}))
	assert.Error(t, err)

	_, err = New(WithMaxIterations(-1))
	assert.Error(t, err)

	c, err := New(WithOntology(brokenLookup(), nil))
	require.NoError(t, err)
	normalization, onto := c.Rules()
	assert.Len(t, normalization, 5)
	assert.Len(t, onto, 1)
}
