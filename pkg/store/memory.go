package store

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	links map[string][]curations.Link
	opts  *options
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		links: make(map[string][]curations.Link),
		opts:  defaultOptions().apply(opts...),
	}
}

// Persist implements Persister. Persisting the same curation twice for a
// sample and domain returns the existing link.
func (m *Memory) Persist(ctx context.Context, sample string, c curations.Curation, domain string) (curations.Link, error) {
	if err := ctx.Err(); err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}

	link, err := curations.NewLink(sample, c, domain, m.opts.now())
	if err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.links[sample]
	if i := slices.IndexFunc(existing, func(l curations.Link) bool { return l.Hash == link.Hash }); i >= 0 {
		return existing[i], nil
	}
	m.links[sample] = append(existing, link)
	return link, nil
}

// Links implements Reader.
func (m *Memory) Links(_ context.Context, sample string) ([]curations.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.links[sample]), nil
}

// Count returns the number of stored links across all samples.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.links {
		n += len(l)
	}
	return n
}
