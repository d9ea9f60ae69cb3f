package server

import (
	"context"
	"errors"
	"net/http"
)

// Start serves until the listener fails or Shutdown is called.
func (s *implServer) Start(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server listening on %s", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes WebSocket connections.
func (s *implServer) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.http.Shutdown(ctx)
}

// Addr returns the listen address.
func (s *implServer) Addr() string {
	return s.http.Addr
}
