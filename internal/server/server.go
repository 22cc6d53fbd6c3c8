// Package server serves the dashboard over HTTP: a single page plus the
// JSON views and PNG charts it is assembled from.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/KaramelBytes/costboard/internal/charts"
	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/KaramelBytes/costboard/internal/views"
)

// Source hands out the loaded dataset. *dataset.Holder implements it.
type Source interface {
	Get() (*dataset.Dataset, error)
}

// Options configures the dashboard defaults.
type Options struct {
	Addr      string
	TopN      int
	MapField  string
	RankField string
	ChartSize charts.Size

	// ShutdownTimeout bounds the graceful drain; 0 means 5s.
	ShutdownTimeout time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	src  Source
	log  *utils.Logger
	opts Options
	mux  *http.ServeMux
}

// New builds a Server over src and registers its routes.
func New(src Source, log *utils.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8501"
	}
	if opts.TopN == 0 {
		opts.TopN = views.DefaultTopN
	}
	if opts.MapField == "" {
		opts.MapField = views.DefaultMapField
	}
	if opts.RankField == "" {
		opts.RankField = views.DefaultRankField
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if log == nil {
		log = utils.NewLogger(false)
	}
	s := &Server{src: src, log: log, opts: opts, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/fields", s.handleFields)
	s.mux.HandleFunc("GET /api/overview", s.handleOverview)
	s.mux.HandleFunc("GET /api/countries", s.handleCountries)
	s.mux.HandleFunc("GET /api/cities", s.handleCities)
	s.mux.HandleFunc("GET /api/country", s.handleCountry)
	s.mux.HandleFunc("GET /api/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/insights", s.handleInsights)
	s.mux.HandleFunc("GET /charts/{file}", s.handleChart)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// ListenAndServe serves until ctx is cancelled and then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Dashboard listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.log.Info("Shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
