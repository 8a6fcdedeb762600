package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
)

const (
	fieldName      = "name"
	fieldEmail     = "email"
	fieldImage     = "image"
	fieldCreatedAt = "created_at"
	fieldLat       = "lat"
	fieldLng       = "lng"

	viewedPrefix = "viewed:"
)

// store is the consumer interface for session records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo stores session users, their cached location and the set of services
// they viewed in one hash per session, so all of it expires together.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a session repository. Keys are <prefix>session:<id>.
func New(s store, keyPrefix string, ttl time.Duration) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "session:", ttl: ttl}
}

// Save writes the user record and (re)sets the session TTL.
func (r *Repo) Save(ctx context.Context, u domsession.User) error {
	key := r.key(u.ID)
	fields := map[string]string{
		fieldName:      u.Name,
		fieldEmail:     u.Email,
		fieldImage:     u.Image,
		fieldCreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("save session %s: %w", u.ID, err)
	}
	if err := r.store.Expire(ctx, key, r.ttl, false); err != nil {
		return fmt.Errorf("expire session %s: %w", u.ID, err)
	}
	return nil
}

// Get loads a user. Unknown or expired sessions yield domain.ErrSessionNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domsession.User, error) {
	m, err := r.load(ctx, id)
	if err != nil {
		return domsession.User{}, err
	}

	u := domsession.User{
		ID:    id,
		Name:  m[fieldName],
		Email: m[fieldEmail],
		Image: m[fieldImage],
	}
	if t, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt]); err == nil {
		u.CreatedAt = t
	}
	return u, nil
}

// Delete removes the session.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// SetLocation caches the user's last known position on an existing session.
func (r *Repo) SetLocation(ctx context.Context, id string, p geo.Point) error {
	key := r.key(id)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check session %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}

	fields := map[string]string{
		fieldLat: strconv.FormatFloat(p.Lat, 'f', -1, 64),
		fieldLng: strconv.FormatFloat(p.Lng, 'f', -1, 64),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("save location %s: %w", id, err)
	}
	return r.keepExpiring(ctx, key, id)
}

// MarkViewed records that the session viewed a service. It reports false when
// the session had already viewed it. Unknown sessions yield domain.ErrSessionNotFound.
func (r *Repo) MarkViewed(ctx context.Context, id, serviceID string) (bool, error) {
	key := r.key(id)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", id, err)
	}
	if !ok {
		return false, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}

	set, err := r.store.HSetNX(ctx, key, viewedPrefix+serviceID, "1")
	if err != nil {
		return false, fmt.Errorf("mark viewed %s: %w", id, err)
	}
	if err := r.keepExpiring(ctx, key, id); err != nil {
		return false, err
	}
	return set, nil
}

// UnmarkViewed forgets a recorded view so the session may count it again.
func (r *Repo) UnmarkViewed(ctx context.Context, id, serviceID string) error {
	if err := r.store.HDel(ctx, r.key(id), viewedPrefix+serviceID); err != nil {
		return fmt.Errorf("unmark viewed %s: %w", id, err)
	}
	return nil
}

// keepExpiring puts a TTL back on a hash that lost it. A session can expire
// between the existence check and a write, and the write then recreates the
// key without one.
func (r *Repo) keepExpiring(ctx context.Context, key, id string) error {
	if err := r.store.Expire(ctx, key, r.ttl, true); err != nil {
		return fmt.Errorf("expire session %s: %w", id, err)
	}
	return nil
}

// Location returns the cached position. A session without one yields domain.ErrNotFound.
func (r *Repo) Location(ctx context.Context, id string) (geo.Point, error) {
	m, err := r.load(ctx, id)
	if err != nil {
		return geo.Point{}, err
	}

	lat, errLat := strconv.ParseFloat(m[fieldLat], 64)
	lng, errLng := strconv.ParseFloat(m[fieldLng], 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, fmt.Errorf("location for session %s: %w", id, domain.ErrNotFound)
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

func (r *Repo) load(ctx context.Context, id string) (map[string]string, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return m, nil
}

func (r *Repo) key(id string) string {
	return r.prefix + id
}
