// Package store persists curation links and reads them back for replay.
package store

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/agentstation/curator/pkg/curations"
)

// Persister durably records a curation against a sample. The returned link
// carries the store-assigned creation time; its hash is the stored record id.
// Failures are reported as *errors.StoreError.
type Persister interface {
	Persist(ctx context.Context, sample string, c curations.Curation, domain string) (curations.Link, error)
}

// Reader returns the stored links for a sample in creation order.
type Reader interface {
	Links(ctx context.Context, sample string) ([]curations.Link, error)
}

// Store is a Persister that can also be read back.
type Store interface {
	Persister
	Reader
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() utc.Time
}

func defaultOptions() *options {
	return &options{now: utc.Now}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithClock overrides the clock used to stamp links.
func WithClock(now func() utc.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(ctx context.Context, sample string, c curations.Curation, domain string) (curations.Link, error)

// Persist implements Persister.
func (f PersisterFunc) Persist(ctx context.Context, sample string, c curations.Curation, domain string) (curations.Link, error) {
	return f(ctx, sample, c, domain)
}
