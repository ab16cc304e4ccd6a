package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/filter"
	"github.com/tablegate/tablegate/internal/tablegate"
	"github.com/tablegate/tablegate/internal/worker"
	"net"
	"net/http"
	"strconv"
	"time"
)

//go:generate mockgen -destination=server_mock.go -package=server -source=server.go

const (
	serverName      = "tablegate http server"
	startupGrace    = 500 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// storage is the set of table operations the API forwards to.
type storage interface {
	ListTables(ctx context.Context) *worker.Future[[]string]
	CreateTable(ctx context.Context, tableID string, families map[string]int) *worker.Future[struct{}]
	DeleteTable(ctx context.Context, tableID string) *worker.Future[struct{}]
	TableExists(ctx context.Context, tableID string) *worker.Future[bool]
	ReadRow(ctx context.Context, tableID, rowKey string) *worker.Future[*tablegate.Row]
	ReadRows(ctx context.Context, tableID string, rowKeys []string) *worker.Future[map[string]*tablegate.Row]
	WriteValue(ctx context.Context, tableID, rowKey, family, qualifier string, value []byte) *worker.Future[struct{}]
	WriteRow(ctx context.Context, tableID, rowKey string, mutations []tablegate.Mutation) *worker.Future[struct{}]
	DeleteRow(ctx context.Context, tableID, rowKey string) *worker.Future[struct{}]
	ScanRows(ctx context.Context, tableID string, f filter.Filter, limit int) *worker.Future[[]*tablegate.Row]
}

type Server struct {
	address string
	port    int
	server  httpServer
	store   storage
	auth    *authenticator
}

type Config struct {
	Address string
	Port    int
	Gateway storage
	// Auth enables bearer token checks on /api routes when it carries a secret.
	Auth *AuthConfig

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, errors.New("address is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errGrp = append(errGrp, errors.New("port must be between 1 and 65535"))
	}
	if c.Gateway == nil {
		errGrp = append(errGrp, errors.New("gateway is required"))
	}
	return errors.Join(errGrp...)
}

// New returns the HTTP API server. It does not listen until Start is called.
func New(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Server{
		address: cfg.Address,
		port:    cfg.Port,
		store:   cfg.Gateway,
		auth:    newAuthenticator(cfg.Auth),
	}

	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port)),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s, nil
}

// Start serves in the background. It reports a failure to bind, which shows up
// almost immediately, and otherwise returns nil once the grace period passes.
func (s *Server) Start() error {
	log.Info().Msgf("http server listening at %s:%d", s.address, s.port)

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-time.After(startupGrace):
		return nil
	}
}

// Stop waits for in-flight requests to finish.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("stopping http server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Name returns the name of the server.
func (s *Server) Name() string {
	return serverName
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/bigtable/tables", s.listTables)
	api.HandleFunc("POST /api/bigtable/tables", s.createTable)
	api.HandleFunc("GET /api/bigtable/tables/{tableId}", s.tableExists)
	api.HandleFunc("DELETE /api/bigtable/tables/{tableId}", s.deleteTable)
	api.HandleFunc("GET /api/bigtable/tables/{tableId}/rows", s.scanRows)
	api.HandleFunc("POST /api/bigtable/tables/{tableId}/rows/batch", s.readRows)
	api.HandleFunc("GET /api/bigtable/tables/{tableId}/rows/{rowKey}", s.readRow)
	api.HandleFunc("DELETE /api/bigtable/tables/{tableId}/rows/{rowKey}", s.deleteRow)
	api.HandleFunc("POST /api/bigtable/tables/{tableId}/rows/{rowKey}/mutations", s.writeRow)
	api.HandleFunc("POST /api/bigtable/rows", s.writeValue)
	mux.Handle("/api/", s.auth.middleware(api))

	return withRequestID(withAccessLog(withRecovery(mux)))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
