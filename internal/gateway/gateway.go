// Package gateway exposes the storage operations behind the HTTP API. Each
// call runs on a shared worker pool and hands back a future; failures from
// the Bigtable client come back as ErrBackend, bad input as ErrValidation.
package gateway

import (
	"cloud.google.com/go/bigtable"
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/changefeed"
	"github.com/tablegate/tablegate/internal/worker"
	"time"
)

const gatewayName = "Bigtable Gateway"

type adminClient interface {
	Tables(ctx context.Context) ([]string, error)
	CreateTableFromConf(ctx context.Context, conf *bigtable.TableConf) error
	DeleteTable(ctx context.Context, table string) error
	TableInfo(ctx context.Context, table string) (*bigtable.TableInfo, error)
	Close() error
}

type dataClient interface {
	Open(table string) *bigtable.Table
	Close() error
}

type publisher interface {
	Emit(e *changefeed.Event)
}

// Gateway owns the long-lived admin and data clients and the worker pool that
// runs calls against them.
type Gateway struct {
	admin   adminClient
	data    dataClient
	pool    *worker.Pool
	timeout time.Duration
	feed    publisher
}

type Config struct {
	Admin adminClient
	Data  dataClient
	// Workers sizes the pool; zero means twice the CPU count.
	Workers int
	// CallTimeout bounds every remote call; zero leaves it to the caller's context.
	CallTimeout time.Duration
	// Feed receives an event after each successful change. Optional.
	Feed publisher
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Admin == nil {
		errGrp = append(errGrp, errors.New("admin client cannot be nil"))
	}
	if c.Data == nil {
		errGrp = append(errGrp, errors.New("data client cannot be nil"))
	}
	if c.Workers < 0 {
		errGrp = append(errGrp, errors.New("workers cannot be negative"))
	}
	if c.CallTimeout < 0 {
		errGrp = append(errGrp, errors.New("call timeout cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New creates a gateway. Start must be called before submitting work.
func New(cfg *Config) (*Gateway, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pool, err := worker.New(&worker.Config{Size: cfg.Workers})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Gateway{
		admin:   cfg.Admin,
		data:    cfg.Data,
		pool:    pool,
		timeout: cfg.CallTimeout,
		feed:    cfg.Feed,
	}, nil
}

func (g *Gateway) Start() error {
	if err := g.pool.Start(); err != nil {
		return err
	}
	log.Info().Int("workers", g.pool.Size()).Msg("gateway ready")
	return nil
}

// Stop drains the worker pool and then closes both clients.
func (g *Gateway) Stop() error {
	var errGrp []error
	if err := g.pool.Stop(); err != nil {
		errGrp = append(errGrp, err)
	}
	if err := g.data.Close(); err != nil {
		errGrp = append(errGrp, fmt.Errorf("failed to close data client: %w", err))
	}
	if err := g.admin.Close(); err != nil {
		errGrp = append(errGrp, fmt.Errorf("failed to close admin client: %w", err))
	}
	return errors.Join(errGrp...)
}

func (g *Gateway) Name() string {
	return gatewayName
}

// run dispatches one remote call onto the pool, applying the call timeout and
// translating client failures into backend errors.
func run[T any](ctx context.Context, g *Gateway, action string, fn func(ctx context.Context) (T, error)) *worker.Future[T] {
	return worker.Submit(ctx, g.pool, func(ctx context.Context) (T, error) {
		start := time.Now()
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		got, err := fn(ctx)
		if err != nil {
			var zero T
			log.Debug().Err(err).Str("action", action).Dur("latency", time.Since(start)).Msg("gateway call failed")
			return zero, backendError(action, err)
		}
		log.Debug().Str("action", action).Dur("latency", time.Since(start)).Msg("gateway call")
		return got, nil
	})
}

// invalid short-circuits a call that failed validation.
func invalid[T any](format string, args ...interface{}) *worker.Future[T] {
	var zero T
	return worker.Resolved(zero, error(newError(ErrValidation, format, args...)))
}

func (g *Gateway) emit(e *changefeed.Event) {
	if g.feed != nil {
		g.feed.Emit(e)
	}
}
