package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentstation/curator/pkg/logging"
)

type job struct {
	id     string
	task   Task
	future *Future
}

// Adaptive is the default Pool. A monitor goroutine consults the Scaler every
// ScaleInterval and resizes between CoreWorkers and MaxWorkers.
type Adaptive struct {
	ctx context.Context
	cfg Config

	queue  chan job
	retire chan struct{}
	done   chan struct{}

	closeMu sync.RWMutex // held for reading by blocked submitters
	closed  bool

	sizeMu  sync.Mutex // guards target and stopped
	target  int
	stopped bool

	workers   sync.WaitGroup
	monitor   sync.WaitGroup
	live      atomic.Int32
	busy      atomic.Int32
	waiting   atomic.Int32 // submitters blocked on a full queue
	completed atomic.Int64
}

var _ Pool = (*Adaptive)(nil)

// New starts a pool with cfg.CoreWorkers workers. Cancelling ctx stops the
// pool: queued tasks resolve with the context error without running.
func New(ctx context.Context, cfg Config) (*Adaptive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scaler == nil {
		cfg.Scaler = BacklogScaler{}
	}

	p := &Adaptive{
		ctx:    ctx,
		cfg:    cfg,
		queue:  make(chan job, cfg.QueueSize),
		retire: make(chan struct{}, cfg.MaxWorkers),
		done:   make(chan struct{}),
	}

	p.sizeMu.Lock()
	p.spawn(cfg.CoreWorkers)
	p.target = cfg.CoreWorkers
	p.sizeMu.Unlock()

	if cfg.ScaleInterval > 0 {
		p.monitor.Add(1)
		go p.scale()
	}
	return p, nil
}

// Submit implements Pool. ctx bounds only the wait for queue space; the task
// runs with the pool's context.
func (p *Adaptive) Submit(ctx context.Context, id string, task Task) (*Future, error) {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	if err := p.ctx.Err(); err != nil {
		return nil, err
	}

	f := newFuture(id)
	p.waiting.Add(1)
	defer p.waiting.Add(-1)
	select {
	case p.queue <- job{id: id, task: task, future: f}:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	}
}

// CurrentLoad implements Pool.
func (p *Adaptive) CurrentLoad() Load {
	p.sizeMu.Lock()
	target := p.target
	p.sizeMu.Unlock()
	return Load{
		Workers:   target,
		Busy:      int(p.busy.Load()),
		Queued:    len(p.queue) + int(p.waiting.Load()),
		Completed: p.completed.Load(),
	}
}

// Live returns the number of running worker goroutines. It lags Resize while
// retiring workers finish their current task.
func (p *Adaptive) Live() int {
	return int(p.live.Load())
}

// Resize implements Pool.
func (p *Adaptive) Resize(n int) int {
	n = min(max(n, p.cfg.CoreWorkers), p.cfg.MaxWorkers)

	p.sizeMu.Lock()
	defer p.sizeMu.Unlock()
	if p.stopped {
		return p.target
	}

	delta := n - p.target
	for delta > 0 {
		// Cancel a pending retirement before starting a new goroutine.
		select {
		case <-p.retire:
			delta--
			continue
		default:
		}
		p.spawn(delta)
		delta = 0
	}
	for ; delta < 0; delta++ {
		p.retire <- struct{}{}
	}
	p.target = n
	return n
}

// Close implements Pool. It is safe to call more than once.
func (p *Adaptive) Close() error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.closeMu.Unlock()

	p.sizeMu.Lock()
	p.stopped = true
	p.sizeMu.Unlock()
	close(p.done)

	p.monitor.Wait()
	p.workers.Wait()
	return nil
}

// spawn starts n workers. Callers hold p.sizeMu.
func (p *Adaptive) spawn(n int) {
	p.workers.Add(n)
	for range n {
		p.live.Add(1)
		go p.work()
	}
}

func (p *Adaptive) work() {
	defer p.workers.Done()
	defer p.live.Add(-1)

	for {
		// Queued work takes priority over retirement so a closing pool drains.
		select {
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(j)
			continue
		default:
		}

		select {
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(j)
		case <-p.retire:
			return
		}
	}
}

func (p *Adaptive) run(j job) {
	if err := p.ctx.Err(); err != nil {
		j.future.resolve(Outcome{ID: j.id, Err: err})
		p.completed.Add(1)
		return
	}

	p.busy.Add(1)
	defer p.busy.Add(-1)

	outcome := Outcome{ID: j.id}
	func() {
		defer func() {
			if r := recover(); r != nil {
				outcome.Err = fmt.Errorf("task %s panicked: %v", j.id, r)
			}
		}()
		outcome.Count, outcome.Err = j.task(p.ctx)
	}()

	p.completed.Add(1)
	j.future.resolve(outcome)
}

func (p *Adaptive) scale() {
	defer p.monitor.Done()

	ticker := time.NewTicker(p.cfg.ScaleInterval)
	defer ticker.Stop()

	logger := logging.FromContext(p.ctx)
	for {
		select {
		case <-p.done:
			return
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			load := p.CurrentLoad()
			want := p.cfg.Scaler.Target(load, p.cfg.CoreWorkers, p.cfg.MaxWorkers)
			if want == load.Workers {
				continue
			}
			got := p.Resize(want)
			logger.Debug().
				Int("from", load.Workers).
				Int("to", got).
				Int("busy", load.Busy).
				Int("queued", load.Queued).
				Msg("Resized worker pool")
		}
	}
}
