package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"whispermap/internal/logging"
)

// Server runs an http.Server under a supervisor. Canceling the Serve context
// shuts the server down gracefully within ShutdownTimeout.
type Server struct {
	Srv             *http.Server
	ShutdownTimeout time.Duration
}

func NewServer(addr string, h http.Handler) *Server {
	return &Server{
		Srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ShutdownTimeout: 5 * time.Second,
	}
}

func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Srv.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", ln.Addr().String()).Msg("http listening")
		if err := s.Srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		if err := s.Srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("http shutdown")
		}
		return ctx.Err()
	}
}

func (s *Server) String() string { return "http-server" }
