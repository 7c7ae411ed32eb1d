package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

type fileEntry struct {
	Key       string          `json:"key"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// FileStore writes one JSON file per key under Dir.
type FileStore struct {
	Dir string
	TTL time.Duration
}

func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %s", dir)
	}
	return &FileStore{Dir: dir, TTL: ttl}, nil
}

func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.Dir, "cache_"+hex.EncodeToString(sum[:8])+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cache file")
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cache data")
	}
	if entry.Key != key || !isFresh(time.Unix(entry.Timestamp, 0), s.TTL) {
		return nil, ErrMiss
	}
	return entry.Payload, nil
}

// Put stores payload, which must be valid JSON.
func (s *FileStore) Put(_ context.Context, key string, payload []byte) error {
	entry := fileEntry{
		Key:       key,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache data")
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return errors.Wrap(err, "failed to write cache file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
