// Package run implements the run command, which curates every sample of a
// feed concurrently.
package run

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/curator"
	"github.com/agentstation/curator/cmd/application"
	"github.com/agentstation/curator/internal/cmd/emoji"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/sources"
)

// Flags holds the run command flags. Empty values fall back to configuration.
type Flags struct {
	Samples     string
	From        string
	Until       string
	Provenance  string
	FailOnError bool
}

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Curate every sample in the sample directory",
		Long: `Run curates every sample document in the sample directory with the
adaptive worker pool. Each sample is normalized and its ontology terms are
reconciled; every change is stored as a curation link.

A sample that fails is recorded in the report and does not stop the run.`,
		Example: `  curator run                                  # use samples.dir from config
  curator run --samples ./in --from 2024-01-01  # only samples updated since
  curator run -o markdown > report.md
  curator run --provenance provenance.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runE(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Samples, "samples", "", "sample directory (overrides samples.dir)")
	cmd.Flags().StringVar(&flags.From, "from", "", "only samples updated at or after this date (overrides samples.from)")
	cmd.Flags().StringVar(&flags.Until, "until", "", "only samples updated at or before this date (overrides samples.until)")
	cmd.Flags().StringVar(&flags.Provenance, "provenance", "", "write per-curation provenance to this YAML file")
	cmd.Flags().BoolVar(&flags.FailOnError, "fail-on-error", false, "exit non-zero when any sample fails")

	return cmd
}

func runE(cmd *cobra.Command, app application.Application, flags *Flags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	printer, err := output.NewPrinter(string(app.OutputFormat()), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	src, err := source(app, flags)
	if err != nil {
		return err
	}
	filter, err := window(app, flags)
	if err != nil {
		return err
	}

	var (
		opts    []curator.Option
		tracker provenance.Tracker
	)
	if flags.Provenance != "" {
		tracker = provenance.NewTracker(true)
		opts = append(opts, curator.WithTracker(tracker))
	}

	c, err := app.Curator(opts...)
	if err != nil {
		return err
	}
	c.OnSampleFailed(func(accession string, err error) {
		logger.Debug().Str("sample", accession).Err(err).Msg("Sample failed")
	})

	r, runErr := c.Run(ctx, src, filter)
	if r == nil {
		return runErr
	}

	if tracker != nil {
		if err := provenance.Save(flags.Provenance, tracker.Map()); err != nil {
			return err
		}
		logger.Info().Str("file", flags.Provenance).Msg("Provenance written")
	}

	if err := printer.Report(r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.Status(!r.HasFailures() && runErr == nil), r.Summary())

	if runErr != nil {
		return runErr
	}
	if flags.FailOnError && r.HasFailures() {
		return fmt.Errorf("%d samples failed: %s", r.Failures, strings.Join(r.FailedIDs, ", "))
	}
	return nil
}

func source(app application.Application, flags *Flags) (sources.Source, error) {
	if flags.Samples != "" {
		return sources.NewFiles(flags.Samples)
	}
	return app.Source()
}

func window(app application.Application, flags *Flags) (sources.Filter, error) {
	f, err := app.Filter()
	if err != nil {
		return sources.Filter{}, err
	}
	if flags.From != "" {
		if f.From, err = config.ParseDate("from", flags.From); err != nil {
			return sources.Filter{}, err
		}
	}
	if flags.Until != "" {
		if f.Until, err = config.ParseDate("until", flags.Until); err != nil {
			return sources.Filter{}, err
		}
	}
	return f, nil
}
