package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/nearby/internal/db"
)

// store is the consumer interface for view counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Store persists per-service view counts as plain integer keys (INCRBY + GET).
type Store struct {
	store  store
	prefix string
}

// New creates a view counter store. Keys are <prefix>views:<service id>.
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, prefix: keyPrefix + "views:"}
}

// Get returns the current count. Returns 0 if the key does not exist.
func (s *Store) Get(ctx context.Context, id string) (int64, error) {
	key := s.key(id)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("views GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("views GET %s parse: %w", key, err)
	}
	return val, nil
}

// Increment atomically adds one view and returns the new count.
func (s *Store) Increment(ctx context.Context, id string) (int64, error) {
	key := s.key(id)
	n, err := s.store.IncrBy(ctx, key, 1)
	if err != nil {
		return 0, fmt.Errorf("views INCRBY %s: %w", key, err)
	}
	return n, nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}
