// Package report summarizes a curation run and hands the summary to notifiers.
package report

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"
)

// Report holds the totals of one curation run.
type Report struct {
	RunID              string        `json:"run_id" yaml:"run_id"`
	Domain             string        `json:"domain" yaml:"domain"`
	SamplesProcessed   int           `json:"samples_processed" yaml:"samples_processed"`
	CurationsCommitted int           `json:"curations_committed" yaml:"curations_committed"`
	Failures           int           `json:"failures" yaml:"failures"`
	FailedIDs          []string      `json:"failed_ids,omitempty" yaml:"failed_ids,omitempty"`
	StartedAt          utc.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt         utc.Time      `json:"finished_at" yaml:"finished_at"`
	Duration           time.Duration `json:"duration" yaml:"duration"`
}

// New starts a report for a run.
func New(runID, domain string) *Report {
	return &Report{
		RunID:     runID,
		Domain:    domain,
		StartedAt: utc.Now(),
	}
}

// Observe adds one finished sample. Not safe for concurrent use; the run
// loop calls it from a single goroutine.
func (r *Report) Observe(count int, failed bool) {
	r.SamplesProcessed++
	r.CurationsCommitted += count
	if failed {
		r.Failures++
	}
}

// Finalize records the failed identifiers and the end of the run.
func (r *Report) Finalize(failedIDs []string) {
	r.FailedIDs = failedIDs
	r.Failures = max(r.Failures, len(failedIDs))
	r.FinishedAt = utc.Now()
	r.Duration = r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// HasFailures reports whether any sample failed.
func (r *Report) HasFailures() bool {
	return r.Failures > 0
}

// Summary returns a one-line human readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("Processed %d samples, committed %d curations, %d failed in %s",
		r.SamplesProcessed, r.CurationsCommitted, r.Failures, r.Duration.Round(time.Millisecond))
}
