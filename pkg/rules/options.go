package rules

import (
	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/provenance"
)

// Option configures an Engine.
type Option func(*options) error

type options struct {
	domain        string
	normalization []Rule
	ontology      []Rule
	tracker       provenance.Tracker
	maxIterations int
	hooks         []CommitHook
}

func defaultOptions() *options {
	return &options{
		domain:        constants.DefaultDomain,
		normalization: DefaultNormalization(),
		maxIterations: constants.DefaultMaxIterations,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDomain sets the authority stamped on persisted links.
func WithDomain(domain string) Option {
	return func(o *options) error {
		if domain == "" {
			return errors.NewValidationError("domain", domain, "domain must not be empty")
		}
		o.domain = domain
		return nil
	}
}

// WithNormalization replaces the normalization chain. An empty chain disables the phase.
func WithNormalization(rules ...Rule) Option {
	return func(o *options) error {
		o.normalization = rules
		return nil
	}
}

// WithOntology sets the ontology reconciliation chain. Without it the phase is skipped.
func WithOntology(rules ...Rule) Option {
	return func(o *options) error {
		o.ontology = rules
		return nil
	}
}

// WithTracker records every commit in a provenance tracker.
func WithTracker(t provenance.Tracker) Option {
	return func(o *options) error {
		o.tracker = t
		return nil
	}
}

// WithMaxIterations bounds each phase's fixpoint loop.
func WithMaxIterations(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("max_iterations", n, "must be positive")
		}
		o.maxIterations = n
		return nil
	}
}

// WithCommitHook registers a callback run after every commit.
func WithCommitHook(hook CommitHook) Option {
	return func(o *options) error {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
		return nil
	}
}
