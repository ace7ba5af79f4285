package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/pkg/logging"
)

var validLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger creates a configured logger.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. log.level from CURATOR_LOG_LEVEL or the config file
//  5. Default (info)
func NewLogger(cfg *config.Config, flags *Flags) zerolog.Logger {
	level := determineLogLevel(cfg, flags)

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.NoColor = logCfg.NoColor || flags.NoColor
	logCfg.AddCaller = level == "debug" || level == "trace"
	if cfg != nil {
		if cfg.Log.Format != "" {
			logCfg.Format = cfg.Log.Format
		}
		if cfg.Log.Output != "" {
			logCfg.Output = cfg.Log.Output
		}
	}
	return logging.NewLoggerFromConfig(logCfg)
}

func determineLogLevel(cfg *config.Config, flags *Flags) string {
	if flags.LogLevel != "" {
		return validateLogLevel(flags.LogLevel)
	}

	if flags.Verbose && flags.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if flags.Verbose {
		return "debug"
	}
	if flags.Quiet {
		return "warn"
	}

	if cfg != nil && cfg.Log.Level != "" {
		return validateLogLevel(cfg.Log.Level)
	}
	return "info"
}

// validateLogLevel returns level, or info with a warning when it is unknown.
func validateLogLevel(level string) string {
	if slices.Contains(validLevels, level) {
		return level
	}
	fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", level, "info")
	return "info"
}
