package sources

import (
	"context"
	"iter"
	"slices"

	"github.com/agentstation/curator/pkg/samples"
)

// Memory serves a fixed set of samples in the order given.
type Memory struct {
	samples []samples.Sample
}

// NewMemory creates a source over ss.
func NewMemory(ss ...samples.Sample) *Memory {
	return &Memory{samples: slices.Clone(ss)}
}

// Samples implements Source.
func (m *Memory) Samples(ctx context.Context, f Filter) iter.Seq2[samples.Sample, error] {
	return func(yield func(samples.Sample, error) bool) {
		for _, s := range m.samples {
			if err := ctx.Err(); err != nil {
				yield(samples.Sample{}, err)
				return
			}
			if !f.Match(s) {
				continue
			}
			if !yield(s.Normalize(), nil) {
				return
			}
		}
	}
}

// Len returns the number of samples held.
func (m *Memory) Len() int { return len(m.samples) }
