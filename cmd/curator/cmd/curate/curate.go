// Package curate implements the curate command for a single sample document.
package curate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/emoji"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/differ"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/sources"
)

// result is the machine-readable output of the command.
type result struct {
	Sample    samples.Sample    `json:"sample" yaml:"sample"`
	Committed int               `json:"committed" yaml:"committed"`
	Phase     rules.Phase       `json:"phase" yaml:"phase"`
	Links     []curations.Link  `json:"links,omitempty" yaml:"links,omitempty"`
	Changes   *differ.Changeset `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// NewCommand creates the curate command.
func NewCommand(app application.Application) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:     "curate <sample-file>",
		GroupID: "core",
		Short:   "Curate one sample document and store its curations",
		Long: `Curate runs both rule phases on one sample document, stores every
curation it commits, and prints the curated attributes and the changes.`,
		Example: `  curator curate SAMEA123.yaml
  curator curate SAMEA123.json --write curated.yaml
  curator curate SAMEA123.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			printer, err := output.NewPrinter(string(app.OutputFormat()), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			s, err := sources.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := app.Curator()
			if err != nil {
				return err
			}

			out, err := c.Curate(ctx, s)
			if err != nil {
				return err
			}
			if write != "" {
				if err := sources.WriteFile(write, out.Sample); err != nil {
					return err
				}
			}

			changes := differ.Samples(s, out.Sample)
			if !printer.Format().IsTabular() {
				return output.NewFormatter(printer.Format()).Format(cmd.OutOrStdout(), result{
					Sample:    out.Sample,
					Committed: out.Committed,
					Phase:     out.Phase,
					Links:     out.Links,
					Changes:   changes,
				})
			}

			if err := printer.Attributes(out.Sample.Attributes); err != nil {
				return err
			}
			if changes.HasChanges() {
				fmt.Fprintln(cmd.OutOrStdout())
				if err := printer.Changeset(changes); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: committed %d curations\n", emoji.Success, out.Sample.Accession, out.Committed)
			return nil
		},
	}

	cmd.Flags().StringVar(&write, "write", "", "write the curated sample to this YAML file")
	return cmd
}
