// Package cache keeps the raw dataset payload between refreshes so that a
// restart or a re-fetch does not have to hit the data source again.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMiss is returned by Get when the key is absent or older than the TTL.
var ErrMiss = errors.New("cache miss")

// Store is a payload cache keyed by data source.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Dir        string
	RedisAddr  string
	SQLitePath string
	TTL        time.Duration
}

// New opens the configured backend. It returns a nil Store for "none".
func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendFile:
		store, err := NewFileStore(cfg.Dir, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		return NewRedisStore(cfg.RedisAddr, cfg.TTL), nil
	case BackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func isFresh(storedAt time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return time.Since(storedAt) <= ttl
}
