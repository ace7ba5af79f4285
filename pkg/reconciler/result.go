package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/differ"
	"github.com/agentstation/curator/pkg/samples"
)

// Result represents the outcome of reconciling a link history onto a sample.
type Result struct {
	// Original is the sample before any link was applied
	Original samples.Sample

	// Sample is the reconciled sample
	Sample samples.Sample

	// Applied holds links in the order they were applied
	Applied []curations.Link

	// Unresolved holds links whose preconditions never held
	Unresolved []curations.Link

	// Passes is the number of scans over the pending links
	Passes int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewResult creates a new result starting from s.
func NewResult(s samples.Sample) *Result {
	return &Result{
		Original:  s,
		Sample:    s,
		StartTime: time.Now(),
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// IsComplete returns true if every link was applied.
func (r *Result) IsComplete() bool {
	return len(r.Unresolved) == 0
}

// Changeset returns the attribute changes between the original and the reconciled sample.
func (r *Result) Changeset() *differ.Changeset {
	return differ.Samples(r.Original, r.Sample)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.IsComplete() {
		return fmt.Sprintf("Applied %d curations in %d passes.", len(r.Applied), r.Passes)
	}
	return fmt.Sprintf("Applied %d curations in %d passes; %d could not be applied.",
		len(r.Applied), r.Passes, len(r.Unresolved))
}
