// Package downloader reads the season dataset from its source.
package downloader

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/therealmvp/cache"
	"github.com/therealmvp/data"
	"github.com/therealmvp/models"
)

// Loader performs one read of the dataset per Load call.
type Loader struct {
	Source string
	client *http.Client
	cache  cache.Store
	logger *slog.Logger
}

type Option func(*Loader)

func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithCache puts a payload cache in front of the source. A nil store is ignored.
func WithCache(store cache.Store) Option {
	return func(l *Loader) { l.cache = store }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader for source, which is a file path, an http(s)
// URL or data.SampleSource.
func NewLoader(source string, opts ...Option) *Loader {
	if source == "" {
		source = data.DefaultPath
	}
	l := &Loader{
		Source: source,
		client: &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the parsed records. Any read or parse failure is returned
// unchanged in kind; the loader never retries.
func (l *Loader) Load(ctx context.Context) ([]models.PlayerSeasonRecord, error) {
	if records, ok := l.fromCache(ctx); ok {
		return records, nil
	}

	return l.fetch(ctx)
}

// Reload reads the source without consulting the cache. A successful read
// still replaces the cached payload.
func (l *Loader) Reload(ctx context.Context) ([]models.PlayerSeasonRecord, error) {
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) ([]models.PlayerSeasonRecord, error) {
	payload, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	records, err := Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset from %s", l.Source)
	}

	if l.cache != nil {
		if err := l.cache.Put(ctx, l.Source, payload); err != nil {
			l.logger.Warn("failed to cache dataset", slog.String("source", l.Source), slog.String("error", err.Error()))
		}
	}
	return records, nil
}

func (l *Loader) fromCache(ctx context.Context) ([]models.PlayerSeasonRecord, bool) {
	if l.cache == nil {
		return nil, false
	}
	payload, err := l.cache.Get(ctx, l.Source)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			l.logger.Warn("failed to read dataset cache", slog.String("source", l.Source), slog.String("error", err.Error()))
		}
		return nil, false
	}
	records, err := Decode(payload)
	if err != nil {
		l.logger.Warn("discarding unreadable cache entry", slog.String("source", l.Source), slog.String("error", err.Error()))
		return nil, false
	}
	l.logger.Debug("using cached dataset", slog.String("source", l.Source), slog.Int("records", len(records)))
	return records, true
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	switch {
	case l.Source == data.SampleSource:
		return data.Sample(), nil
	case strings.HasPrefix(l.Source, "http://"), strings.HasPrefix(l.Source, "https://"):
		return l.getData(ctx, l.Source)
	default:
		payload, err := os.ReadFile(l.Source)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read dataset %s", l.Source)
		}
		return payload, nil
	}
}

func (l *Loader) getData(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request for %s failed", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to download %s: %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response for %s", endpoint)
	}
	return body, nil
}

// Decode parses a dataset payload, a JSON array of player records.
func Decode(payload []byte) ([]models.PlayerSeasonRecord, error) {
	var records []models.PlayerSeasonRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	if records == nil {
		// a literal null is not a dataset
		return nil, errors.New("dataset is null")
	}
	return records, nil
}
