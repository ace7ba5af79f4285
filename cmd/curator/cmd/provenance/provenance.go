// Package provenance implements the provenance command, which shows a
// provenance file written by "curator run --provenance".
package provenance

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/provenance"
)

// NewCommand creates the provenance command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		rulePatterns []string
		sample       string
		summary      bool
	)

	cmd := &cobra.Command{
		Use:     "provenance <file>",
		GroupID: "inspect",
		Short:   "Show which rule produced each curation",
		Example: `  curator provenance provenance.yaml
  curator provenance provenance.yaml --rule 'ontology*'
  curator provenance provenance.yaml --sample SAMEA123
  curator provenance provenance.yaml --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := output.NewPrinter(string(app.OutputFormat()), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			file, err := provenance.Load(args[0])
			if err != nil {
				return err
			}
			if file == nil {
				return errors.NewNotFoundError("provenance file", args[0])
			}

			history := file.Provenance
			if sample != "" {
				history = provenance.Map{sample: history[sample]}
			}
			if summary {
				_, err := fmt.Fprint(cmd.OutOrStdout(), provenance.GenerateReport(history).String())
				return err
			}
			return printer.Provenance(history, rulePatterns)
		},
	}

	cmd.Flags().StringSliceVar(&rulePatterns, "rule", nil, "only show curations from rules matching these glob patterns")
	cmd.Flags().StringVar(&sample, "sample", "", "only show curations of this sample")
	cmd.Flags().BoolVar(&summary, "summary", false, "print counts per rule instead of every curation")
	return cmd
}
