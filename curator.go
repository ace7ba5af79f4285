package curator

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/executor"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/reconciler"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/sources"
	"github.com/agentstation/curator/pkg/store"
)

// Curator runs curation over samples and replays stored curations.
type Curator interface {
	// Run curates every sample the source yields for f and returns the run
	// report. Per-sample failures are recorded in the report, not returned;
	// the error is non-nil only when the run itself could not complete, and
	// the report then covers the samples that were started.
	Run(ctx context.Context, src sources.Source, f sources.Filter) (*report.Report, error)

	// Curate runs both rule phases on a single sample
	Curate(ctx context.Context, s samples.Sample) (rules.Outcome, error)

	// Replay applies the stored curation history of s
	Replay(ctx context.Context, s samples.Sample) (*reconciler.Result, error)

	// Rules returns the normalization and ontology chains in execution order
	Rules() (normalization, ontology []rules.Rule)

	// OnCurationCommitted registers a callback for committed curations
	OnCurationCommitted(CurationCommittedHook)

	// OnSampleFailed registers a callback for failed samples
	OnSampleFailed(SampleFailedHook)
}

// curator is the internal implementation of the Curator interface
type curator struct {
	*hooks
	config *config
	engine *rules.Engine
}

// New creates a new Curator instance with the given options
func New(opts ...Option) (Curator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if cfg.store == nil {
		cfg.store = store.NewMemory()
	}

	c := &curator{
		hooks:  newHooks(),
		config: cfg,
	}

	engineOpts := []rules.Option{
		rules.WithDomain(cfg.domain),
		rules.WithNormalization(slices.Concat(cfg.normalization, cfg.extraRules)...),
		rules.WithMaxIterations(cfg.maxIterations),
		rules.WithCommitHook(c.hooks.committed),
	}
	if cfg.lookup != nil {
		engineOpts = append(engineOpts, rules.WithOntology(rules.DefaultOntology(cfg.lookup, cfg.validator)...))
	}
	if cfg.tracker != nil {
		engineOpts = append(engineOpts, rules.WithTracker(cfg.tracker))
	}

	engine, err := rules.NewEngine(cfg.store, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating rule engine: %w", err)
	}
	c.engine = engine
	return c, nil
}

// Rules implements Curator.
func (c *curator) Rules() (normalization, ontology []rules.Rule) {
	return c.engine.Normalization(), c.engine.Ontology()
}

// Curate implements Curator.
func (c *curator) Curate(ctx context.Context, s samples.Sample) (rules.Outcome, error) {
	return c.engine.Curate(ctx, s)
}

// Replay implements Curator.
func (c *curator) Replay(ctx context.Context, s samples.Sample) (*reconciler.Result, error) {
	links, err := c.config.store.Links(ctx, s.Accession)
	if err != nil {
		return nil, err
	}
	return reconciler.ApplyAll(ctx, s.Normalize(), links)
}

// Run implements Curator.
func (c *curator) Run(ctx context.Context, src sources.Source, f sources.Filter) (*report.Report, error) {
	runID := rand.Text()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	rep := report.New(runID, c.config.domain)
	failures := executor.NewFailureQueue()

	logger.Info().
		Str("domain", c.config.domain).
		Int("core_workers", c.config.pool.CoreWorkers).
		Int("max_workers", c.config.pool.MaxWorkers).
		Msg("Starting curation run")

	runErr := executor.Run(ctx, c.config.pool, func(ctx context.Context, pool executor.Pool) error {
		var (
			futures []*executor.Future
			stopErr error
		)

		for s, err := range src.Samples(ctx, f) {
			if err != nil {
				if ctx.Err() != nil {
					stopErr = ctx.Err()
					break
				}
				logger.Warn().Err(err).Msg("Skipping unreadable sample")
				continue
			}

			future, err := pool.Submit(ctx, s.Accession, c.task(s, failures))
			if err != nil {
				stopErr = err
				break
			}
			futures = append(futures, future)

			if len(futures)%constants.ProgressInterval == 0 {
				load := pool.CurrentLoad()
				logger.Info().
					Int("scheduled", len(futures)).
					Int("workers", load.Workers).
					Int("queued", load.Queued).
					Int64("completed", load.Completed).
					Msg("Scheduled samples")
			}
		}
		if stopErr == nil {
			stopErr = ctx.Err()
		}

		// Every scheduled task is collected, even after a stop, so the totals
		// agree with the store and the failure queue. Tasks the pool dropped
		// without running carry a bare context error and are not counted.
		skipped := 0
		err := executor.Collect(context.WithoutCancel(ctx), futures, func(o executor.Outcome) {
			if o.Failed() && !errors.IsTaskError(o.Err) {
				skipped++
				return
			}
			rep.Observe(o.Count, o.Failed())
		})
		if skipped > 0 {
			logger.Warn().Int("skipped", skipped).Msg("Samples dropped before curation started")
		}
		if stopErr != nil {
			return stopErr
		}
		return err
	})

	rep.Finalize(failures.Drain())
	logger.Info().
		Int("samples", rep.SamplesProcessed).
		Int("curations", rep.CurationsCommitted).
		Int("failures", rep.Failures).
		Dur("duration", rep.Duration).
		Msg("Curation run complete")

	if err := report.Multi(c.config.notifiers).Notify(ctx, rep); err != nil {
		logger.Warn().Err(err).Msg("Failed to deliver run report")
	}
	return rep, runErr
}

// task wraps the curation of one sample. Whatever aborts it, including a
// panic, becomes a *errors.TaskError; the accession is pushed onto failures
// and the count committed before the failure is kept.
func (c *curator) task(s samples.Sample, failures *executor.FailureQueue) executor.Task {
	return func(ctx context.Context) (count int, err error) {
		ctx = logging.WithSample(ctx, s.Accession)
		var out rules.Outcome

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			count = out.Committed
			if err == nil {
				return
			}

			err = &errors.TaskError{
				Sample:    s.Accession,
				Phase:     string(out.Phase),
				Committed: out.Committed,
				Err:       err,
			}
			failures.Push(s.Accession)
			logging.FromContext(ctx).Warn().
				Err(err).
				Str("phase", string(out.Phase)).
				Int("committed", out.Committed).
				Msg("Sample curation failed")
			c.hooks.failed(s.Accession, err)
		}()

		out, err = c.engine.Curate(ctx, s)
		return out.Committed, err
	}
}
