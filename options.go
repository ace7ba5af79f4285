package curator

import (
	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/executor"
	"github.com/agentstation/curator/pkg/ontology"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/store"
)

// Option is a function that configures a Curator instance
type Option func(*config) error

type config struct {
	domain        string
	store         store.Store
	lookup        ontology.Lookup
	validator     *ontology.Validator
	normalization []rules.Rule
	extraRules    []rules.Rule
	pool          executor.Config
	notifiers     []report.Notifier
	tracker       provenance.Tracker
	maxIterations int
}

func defaultConfig() *config {
	return &config{
		domain:        constants.DefaultDomain,
		normalization: rules.DefaultNormalization(),
		pool:          executor.DefaultConfig(),
		maxIterations: constants.DefaultMaxIterations,
	}
}

// WithDomain sets the authority stamped on every persisted curation.
func WithDomain(domain string) Option {
	return func(c *config) error {
		if domain == "" {
			return errors.NewValidationError("domain", domain, "domain must not be empty")
		}
		c.domain = domain
		return nil
	}
}

// WithStore sets where curations are persisted and read back for replay.
// Without it an in-memory store is used.
func WithStore(s store.Store) Option {
	return func(c *config) error {
		c.store = s
		return nil
	}
}

// WithOntology enables the ontology reconciliation phase. A nil validator
// disables reachability checks.
func WithOntology(lookup ontology.Lookup, validator *ontology.Validator) Option {
	return func(c *config) error {
		c.lookup = lookup
		c.validator = validator
		return nil
	}
}

// WithNormalization replaces the default normalization chain.
func WithNormalization(chain ...rules.Rule) Option {
	return func(c *config) error {
		c.normalization = chain
		return nil
	}
}

// WithExtraRules appends rules to the end of the normalization chain.
func WithExtraRules(extra ...rules.Rule) Option {
	return func(c *config) error {
		c.extraRules = append(c.extraRules, extra...)
		return nil
	}
}

// WithPool configures the worker pool used by Run.
func WithPool(cfg executor.Config) Option {
	return func(c *config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.pool = cfg
		return nil
	}
}

// WithNotifier adds a notifier that receives the report at the end of every run.
func WithNotifier(n report.Notifier) Option {
	return func(c *config) error {
		if n != nil {
			c.notifiers = append(c.notifiers, n)
		}
		return nil
	}
}

// WithTracker records the provenance of every committed curation.
func WithTracker(t provenance.Tracker) Option {
	return func(c *config) error {
		c.tracker = t
		return nil
	}
}

// WithMaxIterations bounds each phase of the per-sample fixpoint loop.
func WithMaxIterations(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewValidationError("max_iterations", n, "must be positive")
		}
		c.maxIterations = n
		return nil
	}
}
