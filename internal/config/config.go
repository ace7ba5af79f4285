// Package config loads curator settings from config files, environment
// variables, and .env files.
package config

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/executor"
)

// EnvPrefix namespaces every environment variable, e.g. CURATOR_WORKERS_MAX.
const EnvPrefix = "CURATOR"

// dateLayouts are accepted for samples.from and samples.until.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Config holds the resolved settings of one curator invocation.
type Config struct {
	// File is the config file that was read, if any
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	Domain   string         `json:"domain" yaml:"domain"`
	Workers  WorkersConfig  `json:"workers" yaml:"workers"`
	Ontology OntologyConfig `json:"ontology" yaml:"ontology"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Samples  SamplesConfig  `json:"samples" yaml:"samples"`
	Rules    RulesConfig    `json:"rules" yaml:"rules"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// WorkersConfig sizes the adaptive pool.
type WorkersConfig struct {
	Core          int           `json:"core" yaml:"core"`
	Max           int           `json:"max" yaml:"max"`
	Queue         int           `json:"queue" yaml:"queue"`
	ScaleInterval time.Duration `json:"scale_interval" yaml:"scale_interval"`
}

// OntologyConfig configures the ontology lookup service.
type OntologyConfig struct {
	URL              string        `json:"url" yaml:"url"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	CacheTTL         time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	ValidatePatterns []string      `json:"validate_patterns,omitempty" yaml:"validate_patterns,omitempty"`
	TrustedHosts     []string      `json:"trusted_hosts,omitempty" yaml:"trusted_hosts,omitempty"`
	// Offline disables the lookup service entirely
	Offline bool `json:"offline" yaml:"offline"`
	// Token is sent as a bearer credential when set
	Token string `json:"-" yaml:"-"`
}

// StoreConfig locates persisted curation links.
type StoreConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// SamplesConfig locates sample documents and bounds them by update time.
type SamplesConfig struct {
	Dir   string `json:"dir" yaml:"dir"`
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
	Until string `json:"until,omitempty" yaml:"until,omitempty"`
}

// RulesConfig points at optional rule inputs.
type RulesConfig struct {
	SynonymsFile string `json:"synonyms_file,omitempty" yaml:"synonyms_file,omitempty"`
}

// ReportConfig controls where the run report is written.
type ReportConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// EngineConfig bounds the rule engine.
type EngineConfig struct {
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("domain", constants.DefaultDomain)
	v.SetDefault("workers.core", constants.DefaultCoreWorkers)
	v.SetDefault("workers.max", constants.DefaultMaxWorkers)
	v.SetDefault("workers.queue", constants.DefaultQueueSize)
	v.SetDefault("workers.scale_interval", constants.DefaultScaleInterval)
	v.SetDefault("ontology.url", constants.DefaultOntologyURL)
	v.SetDefault("ontology.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("ontology.cache_ttl", constants.CacheTTL)
	v.SetDefault("ontology.validate_patterns", []string{})
	v.SetDefault("ontology.trusted_hosts", []string{})
	v.SetDefault("ontology.offline", false)
	v.SetDefault("store.dir", constants.DefaultStorePath)
	v.SetDefault("samples.dir", constants.DefaultSamplesPath)
	v.SetDefault("samples.from", "")
	v.SetDefault("samples.until", "")
	v.SetDefault("rules.synonyms_file", "")
	v.SetDefault("report.file", "")
	v.SetDefault("engine.max_iterations", constants.DefaultMaxIterations)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Load resolves the configuration in order of precedence:
//  1. Command-line flags bound to v
//  2. Environment variables (CURATOR_ prefix)
//  3. .env and .env.local files
//  4. Config file (file, or ~/.curator.yaml / ./.curator.yaml)
//  5. Defaults
func Load(v *viper.Viper, file string) (*Config, error) {
	loadEnvFiles()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".curator")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search locations are optional.
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	cfg := &Config{
		File:   v.ConfigFileUsed(),
		Domain: v.GetString("domain"),
		Workers: WorkersConfig{
			Core:          v.GetInt("workers.core"),
			Max:           v.GetInt("workers.max"),
			Queue:         v.GetInt("workers.queue"),
			ScaleInterval: v.GetDuration("workers.scale_interval"),
		},
		Ontology: OntologyConfig{
			URL:              v.GetString("ontology.url"),
			Timeout:          v.GetDuration("ontology.timeout"),
			CacheTTL:         v.GetDuration("ontology.cache_ttl"),
			ValidatePatterns: v.GetStringSlice("ontology.validate_patterns"),
			TrustedHosts:     v.GetStringSlice("ontology.trusted_hosts"),
			Offline:          v.GetBool("ontology.offline"),
			Token:            v.GetString("ontology.token"),
		},
		Store: StoreConfig{Dir: v.GetString("store.dir")},
		Samples: SamplesConfig{
			Dir:   v.GetString("samples.dir"),
			From:  v.GetString("samples.from"),
			Until: v.GetString("samples.until"),
		},
		Rules:  RulesConfig{SynonymsFile: v.GetString("rules.synonyms_file")},
		Report: ReportConfig{File: v.GetString("report.file")},
		Engine: EngineConfig{MaxIterations: v.GetInt("engine.max_iterations")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return errors.NewConfigError("domain", "must not be empty", nil)
	}
	if err := c.Pool().Validate(); err != nil {
		return errors.NewConfigError("workers", err.Error(), err)
	}
	if c.Engine.MaxIterations <= 0 {
		return errors.NewConfigError("engine.max_iterations", "must be positive", nil)
	}
	if c.Ontology.Timeout < 0 {
		return errors.NewConfigError("ontology.timeout", "must not be negative", nil)
	}
	if c.Ontology.CacheTTL < 0 {
		return errors.NewConfigError("ontology.cache_ttl", "must not be negative", nil)
	}
	from, until, err := c.Window()
	if err != nil {
		return err
	}
	if !from.IsZero() && !until.IsZero() && until.Time.Before(from.Time) {
		return errors.NewConfigError("samples", "until is before from", nil)
	}
	return nil
}

// Pool returns the executor configuration described by the workers section.
func (c *Config) Pool() executor.Config {
	return executor.Config{
		CoreWorkers:   c.Workers.Core,
		MaxWorkers:    c.Workers.Max,
		QueueSize:     c.Workers.Queue,
		ScaleInterval: c.Workers.ScaleInterval,
	}
}

// Window parses samples.from and samples.until. Empty values are open bounds.
func (c *Config) Window() (from, until utc.Time, err error) {
	if from, err = ParseDate("samples.from", c.Samples.From); err != nil {
		return utc.Time{}, utc.Time{}, err
	}
	if until, err = ParseDate("samples.until", c.Samples.Until); err != nil {
		return utc.Time{}, utc.Time{}, err
	}
	return from, until, nil
}

// ParseDate parses an RFC 3339 timestamp or a plain date. Empty input is
// the zero time; key names the setting in errors.
func ParseDate(key, s string) (utc.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utc.Time{}, nil
	}
	var last error
	for _, layout := range dateLayouts {
		t, err := utc.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		last = err
	}
	return utc.Time{}, errors.NewConfigError(key, "invalid date "+s, last)
}

// loadEnvFiles loads .env files; .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
