package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/nearby/internal/db"
)

func TestStore_RoundTrip(t *testing.T) {
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.WaitForReady(ctx, 2*time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}

	n, err := s.IncrBy(ctx, "views:a", 1)
	if err != nil || n != 1 {
		t.Fatalf("IncrBy = %d, %v", n, err)
	}
	n, err = s.IncrBy(ctx, "views:a", 1)
	if err != nil || n != 2 {
		t.Fatalf("IncrBy = %d, %v", n, err)
	}
	data, err := s.Get(ctx, "views:a")
	if err != nil || string(data) != "2" {
		t.Fatalf("Get = %q, %v", data, err)
	}
	if _, err := s.Get(ctx, "views:missing"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.HSet(ctx, "session:x", map[string]string{"name": "Ana"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := s.Expire(ctx, "session:x", time.Hour, false); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if set, err := s.HSetNX(ctx, "session:x", "viewed:a", "1"); err != nil || !set {
		t.Fatalf("HSetNX first = %v, %v", set, err)
	}
	if set, err := s.HSetNX(ctx, "session:x", "viewed:a", "1"); err != nil || set {
		t.Fatalf("HSetNX second = %v, %v", set, err)
	}
	if err := s.HDel(ctx, "session:x", "viewed:a"); err != nil {
		t.Fatalf("HDel: %v", err)
	}
	m, err := s.HGetAll(ctx, "session:x")
	if err != nil || m["name"] != "Ana" {
		t.Fatalf("HGetAll = %v, %v", m, err)
	}
	if _, ok := m["viewed:a"]; ok {
		t.Fatalf("HDel left field behind: %v", m)
	}
	if err := s.Del(ctx, "session:x"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, err := s.Exists(ctx, "session:x"); err != nil || ok {
		t.Fatalf("Exists after Del = %v, %v", ok, err)
	}
}
