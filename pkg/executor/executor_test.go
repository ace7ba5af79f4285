package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/curator/pkg/errors"
)

func testConfig(core, limit int) Config {
	return Config{CoreWorkers: core, MaxWorkers: limit, QueueSize: 64}
}

func TestPoolRunsTasks(t *testing.T) {
	ctx := context.Background()
	var (
		total    int
		failures []string
	)

	err := Run(ctx, testConfig(2, 4), func(ctx context.Context, p Pool) error {
		var futures []*Future
		for i := range 50 {
			id := fmt.Sprintf("S%02d", i)
			f, err := p.Submit(ctx, id, func(context.Context) (int, error) {
				if i%10 == 0 {
					return 1, fmt.Errorf("item %d failed", i)
				}
				return 2, nil
			})
			if err != nil {
				return err
			}
			futures = append(futures, f)
		}
		return Collect(ctx, futures, func(o Outcome) {
			total += o.Count
			if o.Failed() {
				failures = append(failures, o.ID)
			}
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 45*2+5*1, total)
	assert.Equal(t, []string{"S00", "S10", "S20", "S30", "S40"}, failures)
}

func TestPoolGrowsAndShrinks(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(1, 4)
	cfg.ScaleInterval = 5 * time.Millisecond

	p, err := New(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()

	release := make(chan struct{})
	var futures []*Future
	for i := range 10 {
		f, err := p.Submit(ctx, fmt.Sprint(i), func(context.Context) (int, error) {
			<-release
			return 1, nil
		})
		require.NoError(t, err)
		futures = append(futures, f)
	}

	assert.Eventually(t, func() bool { return p.CurrentLoad().Workers == 4 }, 2*time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, p.CurrentLoad().Busy, 4)

	close(release)
	count := 0
	require.NoError(t, Collect(ctx, futures, func(o Outcome) { count += o.Count }))
	assert.Equal(t, 10, count)

	assert.Eventually(t, func() bool { return p.CurrentLoad().Workers == 1 && p.Live() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(10), p.CurrentLoad().Completed)
}

func TestPoolGrowsWithoutQueue(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CoreWorkers: 1, MaxWorkers: 4, ScaleInterval: 5 * time.Millisecond}

	p, err := New(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()

	release := make(chan struct{})
	var (
		mu      sync.Mutex
		futures []*Future
		wg      sync.WaitGroup
	)
	for i := range 7 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := p.Submit(ctx, fmt.Sprint(i), func(context.Context) (int, error) {
				<-release
				return 1, nil
			})
			if assert.NoError(t, err) {
				mu.Lock()
				futures = append(futures, f)
				mu.Unlock()
			}
		}()
	}

	assert.Eventually(t, func() bool { return p.CurrentLoad().Workers == 4 }, 2*time.Second, 5*time.Millisecond)

	close(release)
	wg.Wait()
	count := 0
	require.NoError(t, Collect(ctx, futures, func(o Outcome) { count += o.Count }))
	assert.Equal(t, 7, count)
}

func TestResizeClamps(t *testing.T) {
	p, err := New(context.Background(), testConfig(2, 5))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 5, p.Resize(10))
	assert.Eventually(t, func() bool { return p.Live() == 5 }, time.Second, time.Millisecond)

	assert.Equal(t, 2, p.Resize(0))
	assert.Equal(t, 2, p.CurrentLoad().Workers)
	assert.Eventually(t, func() bool { return p.Live() == 2 }, time.Second, time.Millisecond)

	assert.Equal(t, 3, p.Resize(3))
	assert.Eventually(t, func() bool { return p.Live() == 3 }, time.Second, time.Millisecond)
}

func TestPoolRecoversTaskPanic(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, testConfig(1, 1))
	require.NoError(t, err)
	defer p.Close()

	f, err := p.Submit(ctx, "SAMEA1", func(context.Context) (int, error) { panic("bad sample") })
	require.NoError(t, err)
	o, err := f.Wait(ctx)
	require.NoError(t, err)
	require.Error(t, o.Err)
	assert.Contains(t, o.Err.Error(), "bad sample")

	// The worker survives.
	f, err = p.Submit(ctx, "SAMEA2", func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	o, err = f.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, o.Count)
}

func TestRunClosesPoolOnPanic(t *testing.T) {
	var pool Pool
	assert.PanicsWithValue(t, "boom", func() {
		_ = Run(context.Background(), testConfig(1, 2), func(_ context.Context, p Pool) error {
			pool = p
			panic("boom")
		})
	})

	require.NotNil(t, pool)
	_, err := pool.Submit(context.Background(), "late", func(context.Context) (int, error) { return 0, nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestRunReturnsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), testConfig(1, 1), func(context.Context, Pool) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = Run(context.Background(), Config{}, func(context.Context, Pool) error { return nil })
	assert.True(t, errors.IsValidationError(err))
}

func TestCloseDrainsQueue(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, testConfig(1, 1))
	require.NoError(t, err)

	var ran atomic.Int32
	var futures []*Future
	for i := range 20 {
		f, err := p.Submit(ctx, fmt.Sprint(i), func(context.Context) (int, error) {
			ran.Add(1)
			return 1, nil
		})
		require.NoError(t, err)
		futures = append(futures, f)
	}

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, int32(20), ran.Load())
	for _, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatalf("future %s unresolved after Close", f.ID())
		}
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := New(ctx, testConfig(1, 1))
	require.NoError(t, err)
	defer p.Close()

	started := make(chan struct{})
	var ran atomic.Int32
	first, err := p.Submit(ctx, "first", func(ctx context.Context) (int, error) {
		ran.Add(1)
		close(started)
		<-ctx.Done()
		return 2, ctx.Err()
	})
	require.NoError(t, err)
	<-started

	var queued []*Future
	for i := range 3 {
		f, err := p.Submit(ctx, fmt.Sprint(i), func(context.Context) (int, error) {
			ran.Add(1)
			return 1, nil
		})
		require.NoError(t, err)
		queued = append(queued, f)
	}
	cancel()

	o, err := first.Wait(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, o.Err, context.Canceled)
	assert.Equal(t, 2, o.Count)

	require.NoError(t, Collect(context.Background(), queued, func(o Outcome) {
		assert.ErrorIs(t, o.Err, context.Canceled)
		assert.Zero(t, o.Count)
	}))
	assert.Equal(t, int32(1), ran.Load())

	_, err = p.Submit(context.Background(), "late", func(context.Context) (int, error) { return 0, nil })
	assert.Error(t, err)
}

func TestCollectHonorsContext(t *testing.T) {
	f := newFuture("never")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := Collect(ctx, []*Future{f}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBacklogScaler(t *testing.T) {
	tests := []struct {
		name string
		load Load
		want int
	}{
		{"grow under backlog", Load{Workers: 2, Busy: 2, Queued: 5}, 3},
		{"capped at limit", Load{Workers: 8, Busy: 8, Queued: 5}, 8},
		{"hold while partly busy with backlog", Load{Workers: 4, Busy: 3, Queued: 1}, 4},
		{"shrink when drained", Load{Workers: 4, Busy: 1}, 3},
		{"floor at core", Load{Workers: 2, Busy: 0}, 2},
		{"hold when saturated without backlog", Load{Workers: 3, Busy: 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BacklogScaler{}.Target(tt.load, 2, 8))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{CoreWorkers: 0, MaxWorkers: 1}.Validate())
	assert.Error(t, Config{CoreWorkers: 4, MaxWorkers: 2}.Validate())
	assert.Error(t, Config{CoreWorkers: 1, MaxWorkers: 1, QueueSize: -1}.Validate())
}

func TestFailureQueue(t *testing.T) {
	q := NewFailureQueue()
	q.Push("a")
	q.Push("b")
	q.Push("c")
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"a", "b", "c"}, q.Drain())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestFailureQueueConcurrentPush(t *testing.T) {
	const goroutines, per = 64, 200
	q := NewFailureQueue()

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range per {
				q.Push(fmt.Sprintf("%d-%d", g, i))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*per, q.Len())
	ids := q.Drain()
	require.Len(t, ids, goroutines*per)

	seen := make(map[string]struct{}, len(ids))
	lastPerGoroutine := make(map[int]int)
	for _, id := range ids {
		seen[id] = struct{}{}
		var g, i int
		_, err := fmt.Sscanf(id, "%d-%d", &g, &i)
		require.NoError(t, err)
		if last, ok := lastPerGoroutine[g]; ok {
			assert.Greater(t, i, last, "pushes from one goroutine keep their order")
		}
		lastPerGoroutine[g] = i
	}
	assert.Len(t, seen, goroutines*per)
}
