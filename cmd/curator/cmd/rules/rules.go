// Package rules implements the rules command.
package rules

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/output"
)

// NewCommand creates the rules command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		GroupID: "inspect",
		Short:   "List the curation rules in execution order",
		Long: `Rules lists the normalization rules followed by the ontology rules.
Within a phase the first rule that proposes a curation wins and the phase
restarts from the top.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer, err := output.NewPrinter(string(app.OutputFormat()), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c, err := app.Curator()
			if err != nil {
				return err
			}
			return printer.Rules(c.Rules())
		},
	}
}
