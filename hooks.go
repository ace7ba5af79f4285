package curator

import (
	"context"
	"sync"

	"github.com/agentstation/curator/pkg/rules"
)

// Hook function types for run events. Hooks are called from pool workers and
// must be safe for concurrent use.
type (
	// CurationCommittedHook is called after a curation is persisted and applied
	CurationCommittedHook func(commit rules.Commit)

	// SampleFailedHook is called when a sample's task aborts
	SampleFailedHook func(accession string, err error)
)

// hooks manages event callbacks for curation runs
type hooks struct {
	mu                  sync.RWMutex
	onCurationCommitted []CurationCommittedHook
	onSampleFailed      []SampleFailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnCurationCommitted registers a callback for committed curations
func (h *hooks) OnCurationCommitted(fn CurationCommittedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCurationCommitted = append(h.onCurationCommitted, fn)
}

// OnSampleFailed registers a callback for failed samples
func (h *hooks) OnSampleFailed(fn SampleFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSampleFailed = append(h.onSampleFailed, fn)
}

// committed is the rules.CommitHook that fans out to registered callbacks.
func (h *hooks) committed(_ context.Context, commit rules.Commit) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCurationCommitted {
		fn(commit)
	}
}

func (h *hooks) failed(accession string, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSampleFailed {
		fn(accession, err)
	}
}
