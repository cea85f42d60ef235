// README: API gateway; owns the HTTP listener and graceful shutdown.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"oyadrop/internal/http/handlers"
	"oyadrop/internal/infra"
	"oyadrop/internal/maps"
)

const shutdownTimeout = 10 * time.Second

// ServerDeps lists what the routes need. Travel may be nil.
type ServerDeps struct {
	Geocoder maps.Geocoder
	Quotes   handlers.QuoteService
	Travel   handlers.TravelEstimator
	Requests handlers.RequestService
	Verifier infra.TokenVerifier
	Debounce time.Duration
	Log      *zap.Logger
}

type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(addr string, deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: deps.Log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
