// Package sources provides the sample feeds a curation run reads from.
//
// A Source yields samples lazily and can be iterated any number of times:
//
//	for s, err := range src.Samples(ctx, sources.Filter{}) {
//	    if err != nil {
//	        log.Warn().Err(err).Msg("skipping unreadable sample")
//	        continue
//	    }
//	    ...
//	}
package sources

import (
	"context"
	"iter"

	"github.com/agentstation/utc"

	"github.com/agentstation/curator/pkg/samples"
)

// Source is a finite, restartable feed of samples.
type Source interface {
	// Samples yields each sample matching f. A non-nil error describes one
	// unreadable entry; iteration continues unless the consumer stops.
	Samples(ctx context.Context, f Filter) iter.Seq2[samples.Sample, error]
}

// Filter restricts a feed by last update time. Zero bounds are open; set
// bounds are inclusive.
type Filter struct {
	From  utc.Time `json:"from,omitzero" yaml:"from,omitempty"`
	Until utc.Time `json:"until,omitzero" yaml:"until,omitempty"`
}

// Match reports whether s falls inside the filter.
func (f Filter) Match(s samples.Sample) bool {
	if !f.From.IsZero() && (s.Update.IsZero() || s.Update.Time.Before(f.From.Time)) {
		return false
	}
	if !f.Until.IsZero() && (s.Update.IsZero() || s.Update.Time.After(f.Until.Time)) {
		return false
	}
	return true
}

// IsZero reports whether the filter accepts every sample.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.Until.IsZero()
}
