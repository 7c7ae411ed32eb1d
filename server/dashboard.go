package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/therealmvp/models"
)

// Loader is the dataset read the dashboard performs on each refresh.
type Loader interface {
	Load(ctx context.Context) ([]models.PlayerSeasonRecord, error)
}

// Reloader is implemented by loaders that can bypass their cache.
type Reloader interface {
	Reload(ctx context.Context) ([]models.PlayerSeasonRecord, error)
}

// Dashboard owns the load → transform → render pipeline and the last
// chart it produced.
type Dashboard struct {
	loader   Loader
	renderer Renderer
	logger   *slog.Logger
	metrics  *Metrics

	refreshMu sync.Mutex

	mu        sync.RWMutex
	chart     *LinkedChart
	series    models.Series
	lastErr   error
	listeners []func(*LinkedChart)
}

func NewDashboard(loader Loader, renderer Renderer, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		loader:   loader,
		renderer: renderer,
		logger:   logger,
	}
}

// WithMetrics attaches Prometheus collectors to the pipeline.
func (d *Dashboard) WithMetrics(m *Metrics) *Dashboard {
	d.metrics = m
	return d
}

// OnRender registers fn to be called with every newly rendered chart.
func (d *Dashboard) OnRender(fn func(*LinkedChart)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Refresh runs the pipeline once. A load failure is logged and returned;
// the renderer is not called and the previous chart stays in place.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.run(ctx, d.loader.Load)
}

// Reload is Refresh with a re-read of the source, skipping any cache in
// front of it when the loader supports that.
func (d *Dashboard) Reload(ctx context.Context) error {
	if r, ok := d.loader.(Reloader); ok {
		return d.run(ctx, r.Reload)
	}
	return d.run(ctx, d.loader.Load)
}

func (d *Dashboard) run(ctx context.Context, load func(context.Context) ([]models.PlayerSeasonRecord, error)) error {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	start := time.Now()
	records, err := load(ctx)
	if err != nil {
		d.logger.Error("failed to load dataset", slog.String("error", err.Error()))
		d.metrics.observeLoad(false, time.Since(start))
		d.setErr(err)
		return err
	}
	d.metrics.observeLoad(true, time.Since(start))

	if unknown := models.UnknownPositions(records); len(unknown) > 0 {
		d.logger.Warn("positions outside the colour map", slog.String("positions", strings.Join(unknown, ",")))
	}

	series := models.Transform(records)
	chart, err := d.renderer.Render(series)
	if err != nil {
		d.logger.Error("failed to render chart", slog.String("error", err.Error()))
		d.setErr(err)
		return err
	}
	d.metrics.setRecords(series.Len())

	d.mu.Lock()
	d.chart = chart
	d.series = series
	d.lastErr = nil
	listeners := append([]func(*LinkedChart){}, d.listeners...)
	d.mu.Unlock()

	d.logger.Info("chart rendered", slog.Int("records", series.Len()), slog.Duration("elapsed", time.Since(start)))
	for _, fn := range listeners {
		fn(chart)
	}
	return nil
}

func (d *Dashboard) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = err
}

// Chart returns the last rendered chart, if any.
func (d *Dashboard) Chart() (*LinkedChart, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.chart, d.chart != nil
}

// Series returns the series behind the last rendered chart.
func (d *Dashboard) Series() (models.Series, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.series, d.chart != nil
}

// LastError returns the error of the most recent failed refresh, or nil
// once a refresh has succeeded again.
func (d *Dashboard) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}
