package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/therealmvp/models"
)

// recordingHandler keeps every slog record for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

type fakeLoader struct {
	records []models.PlayerSeasonRecord
	err     error
	calls   int
}

func (f *fakeLoader) Load(context.Context) ([]models.PlayerSeasonRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// reloadingLoader serves stale records from Load and fresh ones from Reload,
// like a Loader with a warm cache.
type reloadingLoader struct {
	fakeLoader
	fresh   []models.PlayerSeasonRecord
	reloads int
}

func (r *reloadingLoader) Reload(context.Context) ([]models.PlayerSeasonRecord, error) {
	r.reloads++
	return r.fresh, nil
}

// countingRenderer wraps ChartRenderer and remembers what it was given.
type countingRenderer struct {
	calls int
	last  models.Series
}

func (r *countingRenderer) Render(series models.Series) (*LinkedChart, error) {
	r.calls++
	r.last = series
	return NewChartRenderer("2018-2019 Regular Season").Render(series)
}

const sampleRecords = `[
	{"PPG":27.3,"RPG":8.1,"BPG":0.5,"POS":"F","APG":5.2,"SPG":1.1,"TOPG":2.0,"TEAM":"LAL","FULL NAME":"LeBron James","ORTG":115,"DRTG":108},
	{"PPG":20.1,"RPG":10.8,"BPG":0.7,"POS":"C","APG":7.3,"SPG":1.4,"TOPG":3.1,"TEAM":"Den","FULL NAME":"Nikola Jokic","ORTG":122.0,"DRTG":106.7},
	{"PPG":9.0,"RPG":3.0,"BPG":0.1,"POS":"PG","APG":4.0,"SPG":0.8,"TOPG":1.2,"TEAM":"Bos","FULL NAME":"Mystery Guard","ORTG":101.0,"DRTG":110.2}
]`

func testRecords(t *testing.T) []models.PlayerSeasonRecord {
	t.Helper()
	var records []models.PlayerSeasonRecord
	require.NoError(t, json.Unmarshal([]byte(sampleRecords), &records))
	return records
}
