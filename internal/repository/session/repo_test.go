package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
)

// mockStore is a map-backed hash store.
type mockStore struct {
	hashes    map[string]map[string]string
	ttls      map[string]time.Duration
	hsetErr   error
	expireErr error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: map[string]map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	if _, dup := h[field]; dup {
		return false, nil
	}
	h[field] = value
	return true, nil
}

func (m *mockStore) HDel(_ context.Context, key string, fields ...string) error {
	for _, f := range fields {
		delete(m.hashes[key], f)
	}
	return nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	if _, has := m.ttls[key]; nx && has {
		return nil
	}
	m.ttls[key] = ttl
	return nil
}

func testUser() domsession.User {
	return domsession.User{
		ID:        "sess-1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Image:     domsession.AvatarURL("Ana"),
		CreatedAt: time.Date(2025, 10, 16, 6, 30, 47, 806000000, time.UTC),
	}
}

func TestSaveAndGet(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", 24*time.Hour)
	ctx := context.Background()

	if err := r.Save(ctx, testUser()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m.ttls["nearby:session:sess-1"] != 24*time.Hour {
		t.Errorf("expected ttl to be set, got %v", m.ttls)
	}

	got, err := r.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := testUser()
	if got.ID != want.ID || got.Name != want.Name || got.Email != want.Email || got.Image != want.Image {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("createdAt: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestGet_Unknown(t *testing.T) {
	r := New(newMockStore(), "nearby:", time.Hour)

	_, err := r.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSave_ExpireError(t *testing.T) {
	m := newMockStore()
	m.expireErr = errors.New("boom")
	r := New(m, "nearby:", time.Hour)

	if err := r.Save(context.Background(), testUser()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())

	if err := r.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get(ctx, "sess-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestLocation_RoundTrip(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())

	if _, err := r.Location(ctx, "sess-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before a location is cached, got %v", err)
	}

	p := geo.Point{Lat: -34.0489, Lng: 24.9087}
	if err := r.SetLocation(ctx, "sess-1", p); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	got, err := r.Location(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if got != p {
		t.Errorf("got %+v, want %+v", got, p)
	}

	u, err := r.Get(ctx, "sess-1")
	if err != nil || u.Name != "Ana" {
		t.Fatalf("user record damaged by location update: %+v, %v", u, err)
	}
}

func TestSetLocation_UnknownSession(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)

	err := r.SetLocation(context.Background(), "ghost", geo.Point{})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if len(m.hashes) != 0 {
		t.Fatal("SetLocation must not create a session")
	}
}

func TestSetLocation_RestoresMissingTTL(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())

	// Simulate the session expiring after the existence check: the key is
	// there but carries no TTL.
	delete(m.ttls, "nearby:session:sess-1")

	if err := r.SetLocation(ctx, "sess-1", geo.Point{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if m.ttls["nearby:session:sess-1"] != time.Hour {
		t.Fatalf("expected ttl to be restored, got %v", m.ttls)
	}
}

func TestSetLocation_KeepsExistingTTL(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())
	m.ttls["nearby:session:sess-1"] = time.Minute

	if err := r.SetLocation(ctx, "sess-1", geo.Point{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if m.ttls["nearby:session:sess-1"] != time.Minute {
		t.Fatalf("location update must not extend the session, got %v", m.ttls)
	}
}

func TestMarkViewed(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())

	first, err := r.MarkViewed(ctx, "sess-1", "svc-1")
	if err != nil || !first {
		t.Fatalf("first MarkViewed = %v, %v", first, err)
	}
	again, err := r.MarkViewed(ctx, "sess-1", "svc-1")
	if err != nil || again {
		t.Fatalf("second MarkViewed = %v, %v", again, err)
	}
	other, err := r.MarkViewed(ctx, "sess-1", "svc-2")
	if err != nil || !other {
		t.Fatalf("MarkViewed other service = %v, %v", other, err)
	}

	if err := r.UnmarkViewed(ctx, "sess-1", "svc-1"); err != nil {
		t.Fatalf("UnmarkViewed: %v", err)
	}
	if again, _ := r.MarkViewed(ctx, "sess-1", "svc-1"); !again {
		t.Fatal("expected view to count again after UnmarkViewed")
	}

	u, err := r.Get(ctx, "sess-1")
	if err != nil || u.Name != "Ana" {
		t.Fatalf("user record damaged by view marks: %+v, %v", u, err)
	}
}

func TestMarkViewed_UnknownSession(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)

	_, err := r.MarkViewed(context.Background(), "made-up", "svc-1")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if len(m.hashes) != 0 {
		t.Fatalf("MarkViewed must not create a session, got %v", m.hashes)
	}
}

func TestDelete_DropsViewMarks(t *testing.T) {
	m := newMockStore()
	r := New(m, "nearby:", time.Hour)
	ctx := context.Background()
	_ = r.Save(ctx, testUser())
	_, _ = r.MarkViewed(ctx, "sess-1", "svc-1")

	_ = r.Delete(ctx, "sess-1")
	_ = r.Save(ctx, testUser())

	if first, _ := r.MarkViewed(ctx, "sess-1", "svc-1"); !first {
		t.Fatal("a new session under the same id must start with no views")
	}
}
