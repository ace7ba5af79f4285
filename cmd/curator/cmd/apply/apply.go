// Package apply implements the apply command, which replays stored
// curations onto a sample document.
package apply

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/emoji"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/differ"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/sources"
)

// result is the machine-readable output of the command.
type result struct {
	Sample     samples.Sample    `json:"sample" yaml:"sample"`
	Applied    []curations.Link  `json:"applied,omitempty" yaml:"applied,omitempty"`
	Unresolved []curations.Link  `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Passes     int               `json:"passes" yaml:"passes"`
	Changes    *differ.Changeset `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// NewCommand creates the apply command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		write  string
		strict bool
	)

	cmd := &cobra.Command{
		Use:     "apply <sample-file>",
		GroupID: "core",
		Short:   "Replay stored curations onto a sample document",
		Long: `Apply reads the curation links stored for a sample and applies them
until no more apply. Links whose preconditions never hold are listed as
unresolved; they usually mean the sample changed after it was curated.`,
		Example: `  curator apply SAMEA123.yaml
  curator apply SAMEA123.yaml --write SAMEA123.curated.yaml
  curator apply SAMEA123.yaml --strict   # fail when a link cannot be applied`,
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

			res, err := c.Replay(ctx, s)
			if err != nil {
				return err
			}
			if write != "" {
				if err := sources.WriteFile(write, res.Sample); err != nil {
					return err
				}
			}

			if !printer.Format().IsTabular() {
				if err := output.NewFormatter(printer.Format()).Format(cmd.OutOrStdout(), result{
					Sample:     res.Sample,
					Applied:    res.Applied,
					Unresolved: res.Unresolved,
					Passes:     res.Passes,
					Changes:    res.Changeset(),
				}); err != nil {
					return err
				}
			} else {
				if err := printTables(cmd, printer, res.Sample, res.Changeset(), res.Unresolved); err != nil {
					return err
				}
			}

			status := emoji.Success
			if !res.IsComplete() {
				status = emoji.Warning
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", status, res.Summary())

			if strict && !res.IsComplete() {
				return fmt.Errorf("%d curations could not be applied to %s", len(res.Unresolved), s.Accession)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&write, "write", "", "write the reconciled sample to this YAML file")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any stored curation cannot be applied")
	return cmd
}

func printTables(cmd *cobra.Command, printer *output.Printer, s samples.Sample, changes *differ.Changeset, unresolved []curations.Link) error {
	w := cmd.OutOrStdout()
	if err := printer.Attributes(s.Attributes); err != nil {
		return err
	}
	if changes.HasChanges() {
		fmt.Fprintln(w)
		if err := printer.Changeset(changes); err != nil {
			return err
		}
	}
	if len(unresolved) > 0 {
		fmt.Fprintln(w, "\nUnresolved curations:")
		if err := printer.Links(unresolved); err != nil {
			return err
		}
	}
	return nil
}
