package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealmvp/models"
)

func TestRefreshRendersChart(t *testing.T) {
	logs := &recordingHandler{}
	loader := &fakeLoader{records: testRecords(t)}
	renderer := &countingRenderer{}
	d := NewDashboard(loader, renderer, slog.New(logs))

	var published []*LinkedChart
	d.OnRender(func(c *LinkedChart) { published = append(published, c) })

	require.NoError(t, d.Refresh(context.Background()))

	chart, ok := d.Chart()
	require.True(t, ok)
	assert.Equal(t, 3, chart.Records)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, models.Transform(loader.records), renderer.last)
	assert.Equal(t, []*LinkedChart{chart}, published)
	assert.NoError(t, d.LastError())

	series, ok := d.Series()
	require.True(t, ok)
	assert.Equal(t, 3, series.Len())

	assert.Equal(t, 0, logs.count(slog.LevelError))
	assert.Equal(t, 1, logs.count(slog.LevelWarn), "unknown position PG is reported")
}

func TestRefreshLoadFailure(t *testing.T) {
	logs := &recordingHandler{}
	loader := &fakeLoader{err: errors.New("connection refused")}
	renderer := &countingRenderer{}
	d := NewDashboard(loader, renderer, slog.New(logs))

	var published int
	d.OnRender(func(*LinkedChart) { published++ })

	err := d.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, 0, renderer.calls, "renderer must not run after a load failure")
	assert.Equal(t, 0, published)
	assert.Equal(t, 1, logs.count(slog.LevelError))
	_, ok := d.Chart()
	assert.False(t, ok)
	assert.EqualError(t, d.LastError(), "connection refused")
}

func TestRefreshFailureKeepsPreviousChart(t *testing.T) {
	loader := &fakeLoader{records: testRecords(t)}
	d := NewDashboard(loader, &countingRenderer{}, slog.New(&recordingHandler{}))
	require.NoError(t, d.Refresh(context.Background()))
	before, _ := d.Chart()

	loader.err = errors.New("timeout")
	require.Error(t, d.Refresh(context.Background()))

	after, ok := d.Chart()
	require.True(t, ok)
	assert.Same(t, before, after)
	assert.Error(t, d.LastError())

	loader.err = nil
	require.NoError(t, d.Refresh(context.Background()))
	assert.NoError(t, d.LastError())
}

func TestRefreshEmptyDataset(t *testing.T) {
	renderer := &countingRenderer{}
	d := NewDashboard(&fakeLoader{records: []models.PlayerSeasonRecord{}}, renderer, slog.New(&recordingHandler{}))

	require.NoError(t, d.Refresh(context.Background()))
	assert.Equal(t, 1, renderer.calls)
	assert.Empty(t, renderer.last.Parallel)
	assert.Empty(t, renderer.last.Scatter)

	chart, ok := d.Chart()
	require.True(t, ok)
	assert.Equal(t, 0, chart.Records)
}

func TestRefreshMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	loader := &fakeLoader{records: testRecords(t)}
	d := NewDashboard(loader, &countingRenderer{}, slog.New(&recordingHandler{})).WithMetrics(metrics)

	require.NoError(t, d.Refresh(context.Background()))
	loader.err = errors.New("boom")
	require.Error(t, d.Refresh(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.loads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.loads.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.records))
}

func TestReloadPrefersReloader(t *testing.T) {
	records := testRecords(t)
	loader := &reloadingLoader{fakeLoader: fakeLoader{records: records[:1]}, fresh: records}
	d := NewDashboard(loader, &countingRenderer{}, slog.New(&recordingHandler{}))

	require.NoError(t, d.Refresh(context.Background()))
	chart, _ := d.Chart()
	assert.Equal(t, 1, chart.Records)

	require.NoError(t, d.Reload(context.Background()))
	chart, _ = d.Chart()
	assert.Equal(t, 3, chart.Records)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, loader.reloads)
}

func TestReloadFallsBackToLoad(t *testing.T) {
	loader := &fakeLoader{records: testRecords(t)}
	d := NewDashboard(loader, &countingRenderer{}, slog.New(&recordingHandler{}))

	require.NoError(t, d.Reload(context.Background()))
	assert.Equal(t, 1, loader.calls)
}
