// Package server exposes quire.Service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quire/internal/config"
	"quire/internal/quire"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Engine *gin.Engine
	addr   string
	logger quire.Logger
}

func NewServer(svc DocumentService, logger quire.Logger, cfg config.ServerConfig) *Server {
	if logger == nil {
		logger = quire.NewNopLogger()
	}
	return &Server{
		Engine: NewRouter(RouterConfig{
			DocumentHandler: NewDocumentHandler(svc),
			HealthHandler:   NewHealthHandler(),
			Logger:          logger,
			AllowedOrigins:  cfg.AllowedOrigins,
		}),
		addr:   cfg.Addr,
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
