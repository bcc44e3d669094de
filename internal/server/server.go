// Package server exposes the read-only contract queries over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CosmWasm/wasmicq/internal/metrics"
	"github.com/CosmWasm/wasmicq/types"
)

const shutdownTimeout = 5 * time.Second

// Querier answers decoded query messages with their JSON response.
type Querier interface {
	QueryMsg(msg types.QueryMsg) ([]byte, error)
}

type Server struct {
	Addr    string
	Started time.Time

	querier Querier
	metrics *metrics.Metrics
	logger  zerolog.Logger
	router  *gin.Engine
}

// New builds the router with all routes registered. m may be nil, in which
// case /metrics is not served.
func New(addr string, q Querier, m *metrics.Metrics, logger zerolog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	if m != nil {
		r.Use(m.Middleware())
	}

	s := &Server{
		Addr:    addr,
		Started: time.Now(),
		querier: q,
		metrics: m,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run listens on Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
