// Package changefeed streams gateway mutations to TCP subscribers as
// newline-delimited JSON.
package changefeed

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"sync"
	"time"
)

const (
	defaultQueueSize    = 10000
	defaultWriteTimeout = 100 * time.Millisecond
)

type Config struct {
	Port    int
	Address string
	// QueueSize bounds events waiting to be broadcast.
	QueueSize int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Port < 0 || c.Port > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.Address == "" {
		errGrp = append(errGrp, fmt.Errorf("invalid address: %s", c.Address))
	}
	if c.QueueSize < 0 {
		errGrp = append(errGrp, fmt.Errorf("invalid queue size: %d", c.QueueSize))
	}
	return errors.Join(errGrp...)
}

type Manager struct {
	listener     net.Listener
	writeTimeout time.Duration

	emitChan   chan *Event
	procCtx    context.Context
	procCancel context.CancelFunc
	procDone   sync.WaitGroup

	clients    map[net.Conn]bool
	clientsMux sync.Mutex
	// closed is set by Stop; connections accepted afterwards are refused.
	closed bool
}

// New binds the listener. Port 0 picks a free port; see Addr.
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	addrString := net.JoinHostPort(cfg.Address, fmt.Sprintf("%d", cfg.Port))
	listener, err := net.Listen("tcp", addrString)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addrString, err)
	}

	queue := cfg.QueueSize
	if queue == 0 {
		queue = defaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		listener:     listener,
		writeTimeout: defaultWriteTimeout,
		emitChan:     make(chan *Event, queue),
		procCtx:      ctx,
		procCancel:   cancel,
		clients:      make(map[net.Conn]bool),
	}, nil
}

// Addr is the bound listener address.
func (m *Manager) Addr() net.Addr {
	return m.listener.Addr()
}

func (m *Manager) Start() error {
	m.procDone.Add(2)
	go func() {
		defer m.procDone.Done()
		for {
			select {
			case <-m.procCtx.Done():
				return
			case e := <-m.emitChan:
				m.broadcast(e)
			}
		}
	}()

	go func() {
		defer m.procDone.Done()
		for {
			conn, err := m.listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) || m.procCtx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("change feed failed to accept connection")
				continue
			}
			go m.handle(conn)
		}
	}()

	log.Info().Msgf("change feed listening at %s", m.listener.Addr())
	return nil
}

func (m *Manager) Stop() error {
	if m.procCancel != nil {
		m.procCancel()
	}

	var errGrp []error
	if m.listener != nil {
		if err := m.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errGrp = append(errGrp, fmt.Errorf("failed to close listener: %w", err))
		}
	}
	m.procDone.Wait()

	m.clientsMux.Lock()
	m.closed = true
	for client := range m.clients {
		_ = client.Close()
		delete(m.clients, client)
	}
	m.clientsMux.Unlock()

	return errors.Join(errGrp...)
}

func (m *Manager) Name() string {
	return "Change Feed"
}

// clientCount is the number of connected subscribers.
func (m *Manager) clientCount() int {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()
	return len(m.clients)
}

// register adds conn to the broadcast set unless the manager has stopped.
func (m *Manager) register(conn net.Conn) bool {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()
	if m.closed {
		return false
	}
	m.clients[conn] = true
	return true
}

func (m *Manager) handle(conn net.Conn) {
	if !m.register(conn) {
		_ = conn.Close()
		return
	}

	defer func() {
		m.clientsMux.Lock()
		delete(m.clients, conn)
		m.clientsMux.Unlock()
		_ = conn.Close()
	}()

	log.Debug().Str("client", conn.RemoteAddr().String()).Int("clients", m.clientCount()).
		Msg("change feed client connected")

	// Subscribers never send anything; reading only detects disconnects.
	buffer := make([]byte, 512)
	for {
		if _, err := conn.Read(buffer); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Str("client", conn.RemoteAddr().String()).Msg("change feed client disconnected")
			}
			return
		}
	}
}
