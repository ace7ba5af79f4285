package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator/cmd/curator/cmd/apply"
	"github.com/agentstation/curator/cmd/curator/cmd/clean"
	"github.com/agentstation/curator/cmd/curator/cmd/curate"
	"github.com/agentstation/curator/cmd/curator/cmd/provenance"
	"github.com/agentstation/curator/cmd/curator/cmd/rules"
	"github.com/agentstation/curator/cmd/curator/cmd/run"
	"github.com/agentstation/curator/cmd/curator/cmd/version"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/pkg/logging"
)

// Execute runs the curator CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "curator",
		Short:   "Biological sample metadata curation",
		Version: a.version,
		Long: `Curator normalizes the attributes of biological sample records and
reconciles their ontology terms. Every change is stored as a curation so it
can be replayed onto the sample later.

Settings are read from flags, CURATOR_* environment variables, .env files,
and $HOME/.curator.yaml, in that order of precedence.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspection Commands:"},
	)

	a.flags.register(root.PersistentFlags())
	if a.stdout != nil {
		root.SetOut(a.stdout)
	}
	if a.stderr != nil {
		root.SetErr(a.stderr)
	}
	root.SetVersionTemplate("curator {{.Version}}\n")

	a.registerCommands(root)
	return root
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if _, err := output.ParseFormat(a.flags.Format); err != nil {
		return err
	}
	if err := a.loadConfig(); err != nil {
		return err
	}

	logger := NewLogger(a.config, a.flags)
	a.logger = &logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, a.logger))

	a.logger.Debug().
		Str("config_file", a.config.File).
		Str("domain", a.config.Domain).
		Msg("Configuration loaded")
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(root *cobra.Command) {
	// Core commands
	root.AddCommand(run.NewCommand(a))
	root.AddCommand(curate.NewCommand(a))
	root.AddCommand(apply.NewCommand(a))

	// Inspection commands
	root.AddCommand(rules.NewCommand(a))
	root.AddCommand(clean.NewCommand(a))
	root.AddCommand(provenance.NewCommand(a))

	// Utility commands
	root.AddCommand(version.NewCommand(a))
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
