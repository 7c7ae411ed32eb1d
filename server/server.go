// Package server wires the dashboard pipeline to HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cli/browser"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/therealmvp/cache"
	"github.com/therealmvp/config"
	"github.com/therealmvp/downloader"
)

// Server serves the dashboard pages and API.
type Server struct {
	ctx       context.Context
	cfg       config.Config
	dashboard *Dashboard
	hub       *Hub
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// New builds a server. ctx bounds the lifetime of websocket connections.
func New(ctx context.Context, cfg config.Config, dashboard *Dashboard, hub *Hub, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ctx:       ctx,
		cfg:       cfg,
		dashboard: dashboard,
		hub:       hub,
		gatherer:  gatherer,
		logger:    logger,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.indexHandler)
	r.Get("/split", s.splitHandler)
	r.Get("/ws", s.wsHandler)
	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/series", s.seriesHandler)
		r.Get("/option", s.optionHandler)
		r.Post("/refresh", s.refreshHandler)
	})

	return r
}

// Serve runs the dashboard until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config) error {
	logger := slog.Default()

	store, err := cache.New(cfg.Cache.Store())
	if err != nil {
		return errors.Wrap(err, "failed to open cache")
	}
	if store != nil {
		defer store.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	loader := downloader.NewLoader(cfg.Source,
		downloader.WithCache(store),
		downloader.WithLogger(logger),
	)
	dashboard := NewDashboard(loader, NewChartRenderer(cfg.Season), logger).
		WithMetrics(NewMetrics(registry))

	hub := NewHub(logger)
	go hub.Run(ctx)
	dashboard.OnRender(hub.PublishChart)

	// first paint; a failure leaves the page on its error view
	_ = dashboard.Refresh(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           New(ctx, cfg, dashboard, hub, registry, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("url", localURL(cfg.Addr)), slog.String("source", cfg.Source))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.OpenBrowser {
		if err := browser.OpenURL(localURL(cfg.Addr)); err != nil {
			logger.Warn("failed to open browser", slog.String("error", err.Error()))
		}
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return fmt.Sprintf("http://localhost%s", addr)
	}
	return "http://" + addr
}
