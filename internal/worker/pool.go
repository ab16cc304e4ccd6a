package worker

import (
	"context"
	"errors"
	"github.com/rs/zerolog/log"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by futures submitted after the pool stopped.
var ErrPoolClosed = errors.New("worker pool is closed")

type task func()

// Pool runs submitted work on a fixed number of goroutines.
type Pool struct {
	size  int
	tasks chan task

	mu      sync.RWMutex
	started bool
	closed  bool
	workers sync.WaitGroup
}

type Config struct {
	// Size is the number of workers. Zero means 2 * runtime.NumCPU().
	Size int
	// QueueSize bounds the pending tasks. Zero means 16 per worker.
	QueueSize int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Size < 0 {
		errGrp = append(errGrp, errors.New("size cannot be negative"))
	}
	if c.QueueSize < 0 {
		errGrp = append(errGrp, errors.New("queue size cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New creates a pool. Workers are not running until Start is called.
func New(cfg *Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	size := cfg.Size
	if size == 0 {
		size = DefaultSize()
	}
	queue := cfg.QueueSize
	if queue == 0 {
		queue = size * 16
	}

	return &Pool{
		size:  size,
		tasks: make(chan task, queue),
	}, nil
}

// DefaultSize is twice the number of logical CPUs.
func DefaultSize() int {
	return 2 * runtime.NumCPU()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Start launches the workers. Calling it again is a no-op.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if p.started {
		return nil
	}
	p.started = true

	p.workers.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.run()
	}
	log.Debug().Int("workers", p.size).Msg("worker pool started")
	return nil
}

func (p *Pool) run() {
	defer p.workers.Done()
	for t := range p.tasks {
		t()
	}
}

// Stop rejects new work, lets queued tasks finish and waits for the workers.
func (p *Pool) Stop() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	started := p.started
	p.mu.Unlock()

	if !started {
		// nobody will drain the queue; run what is left inline
		for t := range p.tasks {
			t()
		}
		return nil
	}
	p.workers.Wait()
	return nil
}

func (p *Pool) Name() string {
	return "Worker Pool"
}

// enqueue hands t to a worker. The read lock keeps Stop from closing the
// channel while a send is in flight.
func (p *Pool) enqueue(ctx context.Context, t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
