// Package clean implements the clean command, which shows what the
// normalization rules make of raw text.
package clean

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/pkg/rules"
)

// AppContext is what the clean command needs from the app.
type AppContext interface {
	OutputFormat() output.Format
}

type result struct {
	Input         string `json:"input" yaml:"input"`
	Cleaned       string `json:"cleaned" yaml:"cleaned"`
	Unit          string `json:"unit,omitempty" yaml:"unit,omitempty"`
	NotApplicable bool   `json:"not_applicable" yaml:"not_applicable"`
}

// NewCommand creates the clean command.
func NewCommand(app AppContext) *cobra.Command {
	var unit bool

	cmd := &cobra.Command{
		Use:     "clean <text>...",
		GroupID: "inspect",
		Short:   "Clean text the way attribute types and values are cleaned",
		Args:    cobra.MinimumNArgs(1),
		Example: `  curator clean '"Homo  sapiens"<br>'     # Homo sapiens
  curator clean --unit "degree celsius"     # canonical unit
  curator clean -o json "N/A" "female"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]result, 0, len(args))
			for _, in := range args {
				r := result{
					Input:         in,
					Cleaned:       rules.CleanString(in),
					NotApplicable: rules.IsNotApplicable(in),
				}
				if unit {
					r.Unit = rules.CanonicalUnit(in)
				}
				results = append(results, r)
			}

			format := app.OutputFormat()
			if format.IsTabular() {
				for _, r := range results {
					line := r.Cleaned
					if unit {
						line = r.Unit
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&unit, "unit", false, "print the canonical unit instead of the cleaned text")
	return cmd
}
