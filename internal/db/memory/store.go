// Package memory runs an embedded Redis-compatible server for local development
// and tests, so the rueidis-backed store works without an external database.
package memory

import (
	"fmt"

	"github.com/alicebob/miniredis/v2"

	"github.com/kailas-cloud/nearby/internal/db"
	dbRedis "github.com/kailas-cloud/nearby/internal/db/redis"
)

var _ db.Store = (*Store)(nil)

// Store is a redis.Store connected to an in-process miniredis server.
// Keys do not expire on wall-clock time; data is lost on Close.
type Store struct {
	*dbRedis.Store
	server *miniredis.Miniredis
}

// NewStore starts the embedded server and connects to it.
func NewStore() (*Store, error) {
	srv, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("start embedded server: %w", err)
	}

	st, err := dbRedis.NewStore(dbRedis.Config{Addrs: []string{srv.Addr()}})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("connect embedded server: %w", err)
	}

	return &Store{Store: st, server: srv}, nil
}

// Close disconnects the client and stops the server.
func (s *Store) Close() {
	s.Store.Close()
	s.server.Close()
}
