package worker

import (
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		cfg      *Config
		wantSize int
		wantErr  string
	}{
		"defaults": {
			cfg:      &Config{},
			wantSize: DefaultSize(),
		},
		"explicit size": {
			cfg:      &Config{Size: 3},
			wantSize: 3,
		},
		"invalid config": {
			cfg:     &Config{Size: -1, QueueSize: -1},
			wantErr: "size cannot be negative\nqueue size cannot be negative",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := New(tc.cfg)
			if tc.wantErr != "" {
				req.EqualError(err, tc.wantErr)
				req.Nil(got)
				return
			}
			req.NoError(err)
			req.Equal(tc.wantSize, got.Size())
			req.Equal("Worker Pool", got.Name())
		})
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	t.Run("returns value", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 2})
		req.NoError(err)
		req.NoError(p.Start())
		defer p.Stop()

		f := Submit(context.Background(), p, func(ctx context.Context) (string, error) {
			return "ok", nil
		})
		got, err := f.Await(context.Background())
		req.NoError(err)
		req.Equal("ok", got)
	})

	t.Run("returns error", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 1})
		req.NoError(err)
		req.NoError(p.Start())
		defer p.Stop()

		boom := errors.New("boom")
		f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			return 0, boom
		})
		_, err = f.Await(context.Background())
		req.ErrorIs(err, boom)
	})

	t.Run("panic becomes error", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 1})
		req.NoError(err)
		req.NoError(p.Start())
		defer p.Stop()

		f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			panic("kaboom")
		})
		_, err = f.Await(context.Background())
		req.Error(err)
		req.Contains(err.Error(), "kaboom")

		// the worker survives the panic
		f2 := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			return 7, nil
		})
		got, err := f2.Await(context.Background())
		req.NoError(err)
		req.Equal(7, got)
	})

	t.Run("closed pool", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 1})
		req.NoError(err)
		req.NoError(p.Start())
		req.NoError(p.Stop())

		f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			return 1, nil
		})
		_, err = f.Await(context.Background())
		req.ErrorIs(err, ErrPoolClosed)
		req.ErrorIs(p.Start(), ErrPoolClosed)
	})

	t.Run("await honours context", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 1})
		req.NoError(err)
		req.NoError(p.Start())
		defer p.Stop()

		release := make(chan struct{})
		f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = f.Await(ctx)
		req.ErrorIs(err, context.DeadlineExceeded)

		close(release)
		got, err := f.Await(context.Background())
		req.NoError(err)
		req.Equal(1, got)
	})

	t.Run("submit context reaches the task", func(t *testing.T) {
		req := require.New(t)
		p, err := New(&Config{Size: 1})
		req.NoError(err)
		req.NoError(p.Start())
		defer p.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		f := Submit(ctx, p, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})

		<-started
		cancel()
		_, err = f.Await(context.Background())
		req.ErrorIs(err, context.Canceled)
	})
}

func TestPool_BoundedConcurrency(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	p, err := New(&Config{Size: 2})
	req.NoError(err)
	req.NoError(p.Start())

	var (
		running atomic.Int32
		peak    atomic.Int32
		wg      sync.WaitGroup
	)
	futures := make([]*Future[struct{}], 0, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		futures = append(futures, Submit(context.Background(), p, func(ctx context.Context) (struct{}, error) {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		}))
	}
	wg.Wait()
	for _, f := range futures {
		_, err := f.Await(context.Background())
		req.NoError(err)
	}

	req.LessOrEqual(peak.Load(), int32(2))
	req.NoError(p.Stop())
	// stopping twice is harmless
	req.NoError(p.Stop())
}

func TestPool_StopDrainsQueue(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	p, err := New(&Config{Size: 1, QueueSize: 8})
	req.NoError(err)

	var ran atomic.Int32
	futures := make([]*Future[int], 0, 4)
	for i := 0; i < 4; i++ {
		futures = append(futures, Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			ran.Add(1)
			return 0, nil
		}))
	}

	// never started: Stop runs the queued tasks itself
	req.NoError(p.Stop())
	req.Equal(int32(4), ran.Load())
	for _, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatal("future not completed after Stop")
		}
	}
}

func TestResolved(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	f := Resolved("v", nil)
	got, err := f.Await(context.Background())
	req.NoError(err)
	req.Equal("v", got)
}
