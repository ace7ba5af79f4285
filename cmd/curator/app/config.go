package app

import (
	"github.com/spf13/pflag"

	"github.com/agentstation/curator/internal/config"
)

// Flags holds the global command-line flags.
type Flags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string
	LogLevel   string
}

// register adds the global flags to fs.
func (f *Flags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "config file (default is $HOME/.curator.yaml)")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	fs.BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	fs.StringVarP(&f.Format, "format", "o", "", "output format: table, wide, json, yaml, markdown")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
}

// loadConfig resolves the configuration once flags are parsed. A config
// supplied through WithConfig is kept.
func (a *App) loadConfig() error {
	if a.config != nil {
		return nil
	}
	cfg, err := config.Load(a.viper, a.flags.ConfigFile)
	if err != nil {
		return err
	}
	a.config = cfg
	return nil
}
