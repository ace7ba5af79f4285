// Package app wires configuration, logging, and the curator instance for
// the curator CLI and exposes them to commands.
package app

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/curator"
	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/internal/transport"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/ontology"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/sources"
	"github.com/agentstation/curator/pkg/store"
)

// App holds the dependencies shared by every command.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	viper  *viper.Viper
	flags  *Flags
	config *config.Config
	logger *zerolog.Logger

	// Command output, defaulting to the process streams
	stdout io.Writer
	stderr io.Writer

	// Curator instance (lazy-initialized, singleton)
	mu      sync.RWMutex
	curator curator.Curator
}

var _ application.Application = (*App)(nil)

// New creates a new App. Configuration is loaded once flags are parsed,
// unless WithConfig supplies it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	nop := logging.NewNopLogger()
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   viper.New(),
		flags:   &Flags{},
		logger:  nop,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the resolved configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() output.Format { return output.Format(a.flags.Format) }

// Curator returns the curator built from the configuration. Without options
// the instance is created once and reused; options always build a new one.
func (a *App) Curator(opts ...curator.Option) (curator.Curator, error) {
	if len(opts) > 0 {
		return a.newCurator(opts...)
	}

	a.mu.RLock()
	if a.curator != nil {
		c := a.curator
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.curator != nil {
		return a.curator, nil
	}
	c, err := a.newCurator()
	if err != nil {
		return nil, err
	}
	a.curator = c
	return c, nil
}

// Source returns the sample directory named by samples.dir.
func (a *App) Source() (sources.Source, error) {
	if a.config == nil {
		return nil, errors.NewConfigError("app", "configuration not loaded", nil)
	}
	return sources.NewFiles(a.config.Samples.Dir)
}

// Filter returns the update window named by samples.from and samples.until.
func (a *App) Filter() (sources.Filter, error) {
	if a.config == nil {
		return sources.Filter{}, errors.NewConfigError("app", "configuration not loaded", nil)
	}
	from, until, err := a.config.Window()
	if err != nil {
		return sources.Filter{}, err
	}
	return sources.Filter{From: from, Until: until}, nil
}

func (a *App) newCurator(extra ...curator.Option) (curator.Curator, error) {
	opts, err := a.curatorOptions()
	if err != nil {
		return nil, err
	}
	c, err := curator.New(append(opts, extra...)...)
	if err != nil {
		return nil, errors.NewConfigError("curator", "building curator", err)
	}
	return c, nil
}

// curatorOptions translates the configuration into curator options.
func (a *App) curatorOptions() ([]curator.Option, error) {
	cfg := a.config
	if cfg == nil {
		return nil, errors.NewConfigError("app", "configuration not loaded", nil)
	}

	st, err := store.NewFiles(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}

	opts := []curator.Option{
		curator.WithDomain(cfg.Domain),
		curator.WithStore(st),
		curator.WithPool(cfg.Pool()),
		curator.WithMaxIterations(cfg.Engine.MaxIterations),
		curator.WithNotifier(report.LogNotifier{}),
	}

	if !cfg.Ontology.Offline {
		var trusted []string
		if len(cfg.Ontology.TrustedHosts) > 0 {
			trusted = cfg.Ontology.TrustedHosts
		}
		validator, err := ontology.NewValidator(cfg.Ontology.ValidatePatterns, trusted)
		if err != nil {
			return nil, err
		}
		ols := ontology.NewOLS(cfg.Ontology.URL,
			transport.WithTimeout(cfg.Ontology.Timeout),
			transport.WithUserAgent("curator/"+a.version),
			transport.WithAuth(&transport.BearerAuth{Token: cfg.Ontology.Token}),
		)
		opts = append(opts, curator.WithOntology(ontology.NewCached(ols, cfg.Ontology.CacheTTL), validator))
	}

	if cfg.Rules.SynonymsFile != "" {
		rule, err := rules.LoadTypeSynonyms(cfg.Rules.SynonymsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, curator.WithExtraRules(rule))
	}

	if cfg.Report.File != "" {
		opts = append(opts, curator.WithNotifier(report.NewFileNotifier(cfg.Report.File)))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets the configuration instead of loading it.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		if cfg == nil {
			return errors.NewValidationError("config", cfg, "must not be nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output and status lines.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}

// WithCurator sets a custom curator instance (useful for testing).
func WithCurator(c curator.Curator) Option {
	return func(a *App) error {
		a.curator = c
		return nil
	}
}
