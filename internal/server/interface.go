package server

import "context"

// Server is the HTTP + WebSocket front of the recorder.
type Server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Addr() string
}
