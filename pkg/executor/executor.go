// Package executor runs per-item tasks on a bounded worker pool that grows
// under backlog and shrinks when idle.
package executor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("executor: pool closed")

// Task does the work for one item and reports how many units it completed.
// The count is meaningful even when err is non-nil.
type Task func(ctx context.Context) (int, error)

// Outcome is the tagged result of a task: a count on success, or the item's
// identifier and the error on failure.
type Outcome struct {
	ID    string
	Count int
	Err   error
}

// Failed reports whether the task ended in error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Load is a point-in-time view of a pool.
type Load struct {
	Workers   int   // current target size
	Busy      int   // workers running a task
	Queued    int   // tasks waiting for a worker, including blocked submitters
	Completed int64 // tasks finished since the pool started
}

// Pool is a bounded, resizable task executor.
type Pool interface {
	// Submit queues task, blocking while the queue is full.
	Submit(ctx context.Context, id string, task Task) (*Future, error)

	// CurrentLoad reports the pool's size and utilization
	CurrentLoad() Load

	// Resize sets the target worker count, clamped to the configured bounds,
	// and returns the size applied
	Resize(n int) int

	// Close stops accepting tasks and waits for queued and running tasks.
	Close() error
}

// Scaler picks a worker count for the observed load within [core, limit].
type Scaler interface {
	Target(load Load, core, limit int) int
}

// ScalerFunc adapts a function to the Scaler interface.
type ScalerFunc func(load Load, core, limit int) int

// Target implements Scaler.
func (f ScalerFunc) Target(load Load, core, limit int) int { return f(load, core, limit) }

// BacklogScaler adds one worker per tick while tasks wait and every worker is
// busy, and removes one per tick while nothing waits and some worker is idle.
type BacklogScaler struct{}

// Target implements Scaler.
func (BacklogScaler) Target(load Load, core, limit int) int {
	switch {
	case load.Queued > 0 && load.Busy >= load.Workers:
		return min(load.Workers+1, limit)
	case load.Queued == 0 && load.Busy < load.Workers:
		return max(load.Workers-1, core)
	}
	return load.Workers
}

// Config sizes a pool.
type Config struct {
	CoreWorkers   int           // workers kept while idle
	MaxWorkers    int           // upper bound on workers
	QueueSize     int           // pending-task capacity
	ScaleInterval time.Duration // how often the Scaler is consulted; <= 0 disables scaling
	Scaler        Scaler        // defaults to BacklogScaler
}

// DefaultConfig returns the pool configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		CoreWorkers:   constants.DefaultCoreWorkers,
		MaxWorkers:    constants.DefaultMaxWorkers,
		QueueSize:     constants.DefaultQueueSize,
		ScaleInterval: constants.DefaultScaleInterval,
		Scaler:        BacklogScaler{},
	}
}

// Validate checks the bounds.
func (c Config) Validate() error {
	if c.CoreWorkers < 1 {
		return errors.NewValidationError("workers.core", c.CoreWorkers, "must be at least 1")
	}
	if c.MaxWorkers < c.CoreWorkers {
		return errors.NewValidationError("workers.max", c.MaxWorkers, "must not be less than workers.core")
	}
	if c.QueueSize < 0 {
		return errors.NewValidationError("workers.queue", c.QueueSize, "must not be negative")
	}
	return nil
}

// Run creates a pool, passes it to fn and closes it when fn returns or panics.
func Run(ctx context.Context, cfg Config, fn func(ctx context.Context, p Pool) error) (err error) {
	p, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			err = stderrors.Join(err, cerr)
		}
	}()
	return fn(ctx, p)
}
