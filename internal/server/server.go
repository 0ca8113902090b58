// Package server exposes the parcel dataset over HTTP: an interactive
// draw map at the root, the boundary analysis endpoint, and the detail
// CSV download.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/config"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/observability"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/store"
)

// LoadFunc produces a fresh dataset snapshot. The server calls it lazily
// when a request arrives and no snapshot is held, mirroring the batch
// loader's behavior without blocking startup on a slow data directory.
type LoadFunc func(ctx context.Context) (*Snapshot, error)

// Server handles the web routes over the current dataset snapshot.
type Server struct {
	cfg     config.ServerConfig
	store   store.Store
	metrics *observability.Metrics
	load    LoadFunc
	limiter *rate.Limiter

	snap   atomic.Pointer[Snapshot]
	reload sync.Mutex
}

// New builds a Server. The store and metrics are required; load may be nil
// when the caller always seeds a snapshot up front.
func New(cfg config.ServerConfig, st store.Store, m *observability.Metrics, load LoadFunc) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		metrics: m,
		load:    load,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// SetSnapshot installs a dataset snapshot and refreshes the dataset gauges.
func (s *Server) SetSnapshot(sn *Snapshot) {
	s.snap.Store(sn)
	if sn != nil {
		s.metrics.ParcelsLoaded.Set(float64(sn.Points.Len()))
		s.metrics.UnmatchedParcels.Set(float64(len(sn.Dataset.Unmatched)))
	}
}

// snapshot returns the current snapshot, attempting one lazy load when
// none is held yet. Returns nil when no data is available.
func (s *Server) snapshot(ctx context.Context) *Snapshot {
	if sn := s.snap.Load(); sn != nil {
		return sn
	}
	if s.load == nil {
		return nil
	}

	s.reload.Lock()
	defer s.reload.Unlock()
	if sn := s.snap.Load(); sn != nil {
		return sn
	}

	sn, err := s.load(ctx)
	if err != nil {
		zap.L().Error("server: dataset load failed", zap.Error(err))
		return nil
	}
	s.SetSnapshot(sn)
	return sn
}

// Router assembles the chi router with logging, CORS, and rate limiting.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.logRequests)
	r.Use(s.rateLimit)

	r.Get("/", s.handleIndex)
	r.Post("/process_boundary", s.handleProcessBoundary)
	r.Get("/download_csv", s.handleDownloadCSV)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	zap.L().Info("server: stopped")
	return nil
}
