package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/logging"
)

// Notifier receives the report at the end of a run.
type Notifier interface {
	Notify(ctx context.Context, r *Report) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, r *Report) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, r *Report) error { return f(ctx, r) }

// Multi notifies every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, r *Report) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// LogNotifier writes the report to the context logger. Runs with failures
// are logged at warn level with the failed identifiers.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, r *Report) error {
	logger := logging.FromContext(ctx)
	event := logger.Info()
	if r.HasFailures() {
		event = logger.Warn().Strs("failed", r.FailedIDs)
	}
	event.
		Str("run_id", r.RunID).
		Str("domain", r.Domain).
		Int("samples", r.SamplesProcessed).
		Int("curations", r.CurationsCommitted).
		Int("failures", r.Failures).
		Dur("duration", r.Duration).
		Msg("Curation run finished")
	return nil
}

// MarkdownNotifier renders the report as a markdown document.
type MarkdownNotifier struct {
	w io.Writer
}

// NewMarkdownNotifier creates a notifier writing to w.
func NewMarkdownNotifier(w io.Writer) *MarkdownNotifier {
	return &MarkdownNotifier{w: w}
}

// Notify implements Notifier.
func (n *MarkdownNotifier) Notify(_ context.Context, r *Report) error {
	return WriteMarkdown(n.w, r)
}

// WriteMarkdown renders r to w.
func WriteMarkdown(w io.Writer, r *Report) error {
	doc := md.NewMarkdown(w).
		H1("Curation run " + r.RunID).
		LF().
		Table(md.TableSet{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Domain", r.Domain},
				{"Samples processed", strconv.Itoa(r.SamplesProcessed)},
				{"Curations committed", strconv.Itoa(r.CurationsCommitted)},
				{"Failures", strconv.Itoa(r.Failures)},
				{"Started", r.StartedAt.Time.Format(constants.TimeFormatHuman)},
				{"Finished", r.FinishedAt.Time.Format(constants.TimeFormatHuman)},
				{"Duration", r.Duration.String()},
			},
		}).
		LF()

	if r.HasFailures() {
		doc.H2("Failed samples").LF()
		if len(r.FailedIDs) > 0 {
			items := make([]string, len(r.FailedIDs))
			for i, id := range r.FailedIDs {
				items[i] = md.Code(id)
			}
			doc.BulletList(items...)
		} else {
			doc.PlainText(fmt.Sprintf("%d samples failed.", r.Failures))
		}
	} else {
		doc.PlainText(md.Italic("No failures."))
	}

	return doc.Build()
}

// Markdown returns the markdown rendering of r.
func Markdown(r *Report) (string, error) {
	var sb strings.Builder
	if err := WriteMarkdown(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}
