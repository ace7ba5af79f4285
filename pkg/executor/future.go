package executor

import "context"

// Future is the pending Outcome of a submitted task.
type Future struct {
	id      string
	done    chan struct{}
	outcome Outcome
}

func newFuture(id string) *Future {
	return &Future{id: id, done: make(chan struct{})}
}

// ID returns the identifier the task was submitted with.
func (f *Future) ID() string { return f.id }

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the task resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		return f.outcome, nil
	case <-ctx.Done():
		return Outcome{ID: f.id}, ctx.Err()
	}
}

func (f *Future) resolve(o Outcome) {
	f.outcome = o
	close(f.done)
}

// Collect waits for every future and calls fn with each outcome, in
// submission order, on the calling goroutine. It returns early only if ctx is
// done.
func Collect(ctx context.Context, futures []*Future, fn func(Outcome)) error {
	for _, f := range futures {
		o, err := f.Wait(ctx)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(o)
		}
	}
	return nil
}
