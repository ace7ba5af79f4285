package ontology

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/curator/pkg/constants"
)

// Cached decorates a Lookup with a TTL cache. Only definitive answers are
// cached; errors are passed through so a later call can retry.
type Cached struct {
	next  Lookup
	store *gocache.Cache
}

type resolved struct {
	iri   string
	found bool
}

// NewCached wraps next. A non-positive ttl uses constants.CacheTTL.
func NewCached(next Lookup, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = constants.CacheTTL
	}
	return &Cached{
		next:  next,
		store: gocache.New(ttl, constants.CacheCleanupInterval),
	}
}

// ResolveShortcode implements Lookup.
func (c *Cached) ResolveShortcode(ctx context.Context, code string) (string, bool, error) {
	key := "code:" + code
	if v, ok := c.store.Get(key); ok {
		r := v.(resolved)
		return r.iri, r.found, nil
	}
	iri, found, err := c.next.ResolveShortcode(ctx, code)
	if err != nil {
		return "", false, err
	}
	c.store.SetDefault(key, resolved{iri: iri, found: found})
	return iri, found, nil
}

// ValidateReachable implements Lookup.
func (c *Cached) ValidateReachable(ctx context.Context, iri string) (bool, error) {
	key := "iri:" + iri
	if v, ok := c.store.Get(key); ok {
		return v.(bool), nil
	}
	ok, err := c.next.ValidateReachable(ctx, iri)
	if err != nil {
		return false, err
	}
	c.store.SetDefault(key, ok)
	return ok, nil
}

// ItemCount returns the number of cached answers.
func (c *Cached) ItemCount() int {
	return c.store.ItemCount()
}

// Flush drops every cached answer.
func (c *Cached) Flush() {
	c.store.Flush()
}
