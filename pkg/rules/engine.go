package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/reconciler"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/store"
)

// Phase names a stage of the per-sample curation.
type Phase string

// Phases in execution order.
const (
	PhasePending  Phase = "pending"
	PhaseRules    Phase = "rules"
	PhaseOntology Phase = "ontology"
	PhaseDone     Phase = "done"
)

// Commit describes one curation persisted and applied by the engine.
type Commit struct {
	Sample string
	Rule   string
	Phase  Phase
	Link   curations.Link
}

// CommitHook is called after each commit, on the goroutine running Curate.
type CommitHook func(ctx context.Context, c Commit)

// Outcome is the state of a sample after Curate. It is meaningful even when
// Curate fails: Sample and Committed reflect what was committed before the error.
type Outcome struct {
	Sample    samples.Sample
	Committed int
	Links     []curations.Link
	Phase     Phase // last phase entered
}

// Engine runs the rule chains against samples. It holds no per-sample state
// and is safe for concurrent use when its rules, store and tracker are.
type Engine struct {
	store store.Persister
	opts  *options
}

// NewEngine creates an engine that persists curations through p.
func NewEngine(p store.Persister, opts ...Option) (*Engine, error) {
	if p == nil {
		return nil, errors.NewConfigError("engine", "a curation store is required", nil)
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{store: p, opts: o}, nil
}

// Domain returns the authority stamped on persisted links.
func (e *Engine) Domain() string { return e.opts.domain }

// Normalization returns the normalization chain.
func (e *Engine) Normalization() []Rule { return e.opts.normalization }

// Ontology returns the ontology chain.
func (e *Engine) Ontology() []Rule { return e.opts.ontology }

// Curate runs the normalization phase and then the ontology phase on s, each
// to a fixpoint, committing one curation per iteration. A panicking rule is
// returned as an error along with what was committed before it.
func (e *Engine) Curate(ctx context.Context, s samples.Sample) (out Outcome, err error) {
	out = Outcome{Sample: s.Normalize(), Phase: PhasePending}
	ctx = logging.WithSample(ctx, s.Accession)
	defer recoverPhase(&out, &err)

	for _, step := range []struct {
		phase Phase
		rules []Rule
	}{
		{PhaseRules, e.opts.normalization},
		{PhaseOntology, e.opts.ontology},
	} {
		out.Phase = step.phase
		if err := e.run(ctx, step.phase, step.rules, &out); err != nil {
			return out, err
		}
	}
	out.Phase = PhaseDone
	return out, nil
}

// Normalize runs only the normalization phase.
func (e *Engine) Normalize(ctx context.Context, s samples.Sample) (out Outcome, err error) {
	out = Outcome{Sample: s.Normalize(), Phase: PhaseRules}
	defer recoverPhase(&out, &err)
	err = e.run(logging.WithSample(ctx, s.Accession), PhaseRules, e.opts.normalization, &out)
	return out, err
}

func recoverPhase(out *Outcome, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic in %s phase after %d curations: %v", out.Phase, out.Committed, r)
	}
}

func (e *Engine) run(ctx context.Context, phase Phase, chain []Rule, out *Outcome) error {
	if len(chain) == 0 {
		return nil
	}
	ctx = logging.WithPhase(ctx, string(phase))

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i >= e.opts.maxIterations {
			return &errors.ConvergenceError{Sample: out.Sample.Accession, Phase: string(phase), Iterations: i}
		}

		rule, c, err := propose(ctx, chain, out.Sample)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		if err := e.commit(ctx, phase, rule, *c, out); err != nil {
			return err
		}
	}
}

// propose asks each rule in order and returns the first proposal.
func propose(ctx context.Context, chain []Rule, s samples.Sample) (string, *curations.Curation, error) {
	for _, r := range chain {
		c, err := r.TryApply(logging.WithRule(ctx, r.Name()), s)
		if err != nil {
			return r.Name(), nil, err
		}
		if c != nil {
			return r.Name(), c, nil
		}
	}
	return "", nil, nil
}

// commit persists c and applies the stored link to the outcome's sample.
func (e *Engine) commit(ctx context.Context, phase Phase, rule string, c curations.Curation, out *Outcome) error {
	accession := out.Sample.Accession

	link, err := e.store.Persist(ctx, accession, c, e.opts.domain)
	if err != nil {
		if !errors.IsStoreError(err) {
			err = errors.WrapStore("persist", accession, err)
		}
		return err
	}

	next, err := reconciler.Apply(out.Sample, link)
	if err != nil {
		return err
	}
	out.Sample = next
	out.Committed++
	out.Links = append(out.Links, link)

	logging.FromContext(ctx).Debug().
		Str("rule", rule).
		Str("curation", c.Hash).
		Str("link", link.Hash).
		Int("committed", out.Committed).
		Msg("Committed curation")

	if e.opts.tracker != nil {
		e.opts.tracker.Track(provenance.Entry{
			Sample:       accession,
			Rule:         rule,
			Phase:        string(phase),
			CurationHash: c.Hash,
			LinkHash:     link.Hash,
			Pre:          attributeStrings(c.AttributesPre),
			Post:         attributeStrings(c.AttributesPost),
			Timestamp:    time.Now(),
		})
	}
	for _, hook := range e.opts.hooks {
		hook(ctx, Commit{Sample: accession, Rule: rule, Phase: phase, Link: link})
	}
	return nil
}

func attributeStrings(attrs []samples.Attribute) []string {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.String()
	}
	return out
}
