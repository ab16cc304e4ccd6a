package app

import (
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"testing"
	"time"
)

func TestCreateApp(t *testing.T) {
	tests := map[string]struct {
		cfg   *Config
		error string
	}{
		"missing everything": {
			cfg:   &Config{},
			error: "service name is required\nstop timeout is required",
		},
		"negative timeout": {
			cfg:   &Config{ServiceName: "svc", StopTimeout: -time.Second},
			error: "stop timeout is required",
		},
		"valid": {
			cfg: &Config{ServiceName: "svc", StopTimeout: time.Second},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := CreateApp(tc.cfg)
			if tc.error != "" {
				req.EqualError(err, tc.error)
				return
			}
			req.NoError(err)
			req.Equal("svc", got.serviceName)
		})
	}
}

func newDep(ctrl *gomock.Controller, name string, started chan<- string) *MockDependency {
	dep := NewMockDependency(ctrl)
	dep.EXPECT().Name().Return(name).AnyTimes()
	dep.EXPECT().Start().DoAndReturn(func() error {
		started <- name
		return nil
	})
	return dep
}

func TestApp_Run(t *testing.T) {
	t.Run("context cancel stops dependencies in reverse order", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		started := make(chan string, 2)
		first := newDep(ctrl, "first", started)
		second := newDep(ctrl, "second", started)
		gomock.InOrder(
			second.EXPECT().Stop().Return(nil),
			first.EXPECT().Stop().Return(nil),
		)

		a, err := CreateApp(&Config{ServiceName: "svc", StopTimeout: time.Second}, first, second)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- a.Run(ctx) }()

		<-started
		<-started
		cancel()

		select {
		case err := <-errCh:
			req.NoError(err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
		}

		req.EqualError(a.Run(context.Background()), "run has already been called")
	})

	t.Run("start failure shuts the app down", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		ok := NewMockDependency(ctrl)
		ok.EXPECT().Name().Return("ok").AnyTimes()
		// the failure may win the race against this Start
		ok.EXPECT().Start().Return(nil).MaxTimes(1)
		ok.EXPECT().Stop().Return(nil)

		bad := NewMockDependency(ctrl)
		bad.EXPECT().Name().Return("bad").AnyTimes()
		bad.EXPECT().Start().Return(errors.New("bind: address already in use"))
		bad.EXPECT().Stop().Return(nil)

		a, err := CreateApp(&Config{ServiceName: "svc", StopTimeout: time.Second}, ok, bad)
		req.NoError(err)

		err = a.Run(context.Background())
		req.ErrorContains(err, "failure in Start() for dependency bad: bind: address already in use")
	})

	t.Run("stop errors are joined", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		started := make(chan string, 2)
		first := newDep(ctrl, "first", started)
		first.EXPECT().Stop().Return(errors.New("flush failed"))
		second := newDep(ctrl, "second", started)
		second.EXPECT().Stop().Return(nil)

		a, err := CreateApp(&Config{ServiceName: "svc", StopTimeout: time.Second}, first, second)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			<-started
			cancel()
		}()

		err = a.Run(ctx)
		req.EqualError(err, "failure in Stop() for dependency first: flush failed")
	})

	t.Run("slow stop times out", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		started := make(chan string, 1)
		release := make(chan struct{})
		defer close(release)

		slow := newDep(ctrl, "slow", started)
		slow.EXPECT().Stop().DoAndReturn(func() error {
			<-release
			return nil
		})

		a, err := CreateApp(&Config{ServiceName: "svc", StopTimeout: 50 * time.Millisecond}, slow)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()

		err = a.Run(ctx)
		req.ErrorIs(err, context.DeadlineExceeded)
		req.ErrorContains(err, "dependencies did not stop within 50ms")
	})
}
