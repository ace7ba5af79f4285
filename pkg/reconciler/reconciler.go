// Package reconciler applies curations to samples. Single edits are checked
// against their preconditions and applied atomically; an unordered history of
// edits is reconciled by repeated passes until nothing more applies.
package reconciler

import (
	"context"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/samples"
)

// ApplyAll reconciles links onto s. Each pass walks the remaining links in
// input order and applies every one whose preconditions hold against the
// sample so far. Passes repeat until one applies nothing. Links that never
// apply are returned in Result.Unresolved and logged; they are not an error.
// The only error is cancellation of ctx.
func ApplyAll(ctx context.Context, s samples.Sample, links []curations.Link) (*Result, error) {
	result := NewResult(s)
	logger := logging.FromContext(ctx)

	pending := dedupe(links)
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			result.Unresolved = pending
			result.Finalize()
			return result, err
		}

		result.Passes++
		remaining := pending[:0:0]
		for _, link := range pending {
			next, err := Apply(result.Sample, link)
			if err != nil {
				remaining = append(remaining, link)
				continue
			}
			result.Sample = next
			result.Applied = append(result.Applied, link)
		}

		if len(remaining) == len(pending) {
			break
		}
		pending = remaining
	}

	result.Unresolved = pending
	result.Finalize()

	if len(result.Unresolved) > 0 {
		hashes := make([]string, len(result.Unresolved))
		for i, l := range result.Unresolved {
			hashes[i] = l.Hash
		}
		logger.Warn().
			Str("sample", s.Accession).
			Int("unresolved", len(hashes)).
			Strs("links", hashes).
			Msg("Curation links could not be applied")
	}

	return result, nil
}

// dedupe drops repeated links, keeping the first occurrence of each hash.
func dedupe(links []curations.Link) []curations.Link {
	seen := make(map[string]struct{}, len(links))
	out := make([]curations.Link, 0, len(links))
	for _, l := range links {
		key := l.Hash
		if key == "" {
			key = curations.LinkHash(l.Sample, l.Curation.ComputeHash(), l.Domain)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
