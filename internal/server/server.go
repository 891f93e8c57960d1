// Package server owns the process lifecycle: it runs the HTTP transport and
// the background workers, and shuts everything down gracefully on SIGINT,
// SIGTERM or SIGQUIT.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/BinGess/Ocean-backend/internal/config"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/workers"
)

type server struct {
	httpServer  *httpServer
	auditWriter *workers.AuditWriter
	logger      *logger.Logger
}

// NewServer wires the HTTP transport and the audit writer into one
// managed lifecycle.
func NewServer(handler http.Handler, auditWriter *workers.AuditWriter, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer:  newHTTPServer(handler, cfg, logger),
		auditWriter: auditWriter,
		logger:      logger,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// the audit writer outlives requests but not the process: it drains its
	// buffer when ctx is cancelled
	go s.auditWriter.Run(ctx)

	go func() {
		<-ctx.Done()

		s.Shutdown()

		// the HTTP server is down, no new audit entries can arrive
		s.auditWriter.Wait()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
