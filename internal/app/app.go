package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

//go:generate mockgen -destination=./app_mock.go -package=app -source=app.go

// Dependency is the interface that wraps the basic methods of a dependency required for the application.
type Dependency interface {
	// Start is anything a dependency needs to do before it's ready to be used
	Start() error
	// Stop is anything a dependency needs to do before it's ready to be stopped
	Stop() error
	// Name is the name of the dependency. It is used for logging and identification purposes, only.
	Name() string
}

type App struct {
	serviceName string
	// deps are started in order and stopped in reverse order.
	deps []Dependency
	// depFailChan receives the first dependency that fails to start.
	depFailChan chan error
	// osSignalChan receives SIGINT and SIGTERM.
	osSignalChan chan os.Signal
	stopCalled   *atomic.Bool
	runCalled    *atomic.Bool
	// stopTimeout bounds how long all dependencies together may take to stop.
	stopTimeout time.Duration
}

type Config struct {
	ServiceName string
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, errors.New("stop timeout is required"))
	}
	return errors.Join(errs...)
}

// CreateApp creates a new application with the provided dependencies.
func CreateApp(cfg *Config, deps ...Dependency) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName:  cfg.ServiceName,
		deps:         deps,
		stopTimeout:  cfg.StopTimeout,
		stopCalled:   &atomic.Bool{},
		runCalled:    &atomic.Bool{},
		depFailChan:  make(chan error, len(deps)),
		osSignalChan: make(chan os.Signal, 1),
	}, nil
}

// Run starts every dependency and blocks until ctx ends, a signal arrives or a
// dependency fails to start. It then stops the dependencies.
func (a *App) Run(ctx context.Context) error {
	if !a.runCalled.CompareAndSwap(false, true) {
		return errors.New("run has already been called")
	}

	ctxCancel, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().Str("service", a.serviceName).Int("dependencies", len(a.deps)).Msg("starting application")

	for _, dep := range a.deps {
		// A Start may block for the life of the dependency, so each runs in
		// its own goroutine and reports failure on depFailChan.
		go func(dep Dependency) {
			defer func() {
				if err := recover(); err != nil {
					a.depFailChan <- fmt.Errorf("panic in Start() for dependency %s: %v", dep.Name(), err)
				}
			}()

			log.Info().Str("dependency", dep.Name()).Msg("starting dependency")
			if err := dep.Start(); err != nil {
				a.depFailChan <- fmt.Errorf("failure in Start() for dependency %s: %w", dep.Name(), err)
			}
		}(dep)
	}

	signal.Notify(a.osSignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(a.osSignalChan)

	var runErr error
	select {
	case <-ctxCancel.Done():
		log.Info().Msg("app context cancelled: shutting down")
	case runErr = <-a.depFailChan:
		log.Error().Err(runErr).Msg("dependency failed to start")
	case sig := <-a.osSignalChan:
		log.Info().Str("signal", sig.String()).Msg("os signal received: shutting down")
	}

	if err := a.stop(); err != nil {
		log.Error().Err(err).Msg("error stopping application")
		return errors.Join(runErr, err)
	}
	return runErr
}

// stop shuts the dependencies down in reverse start order. Dependencies still
// running when the timeout expires are abandoned.
func (a *App) stop() error {
	if !a.stopCalled.CompareAndSwap(false, true) {
		return errors.New("stop has already been called")
	}

	ctxTo, cancel := context.WithTimeout(context.Background(), a.stopTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(a.deps) - 1; i >= 0; i-- {
			dep := a.deps[i]
			log.Info().Str("dependency", dep.Name()).Msg("stopping dependency")
			if err := dep.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("failure in Stop() for dependency %s: %w", dep.Name(), err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctxTo.Done():
		return fmt.Errorf("dependencies did not stop within %s: %w", a.stopTimeout, ctxTo.Err())
	}
}
