package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
	"github.com/kailas-cloud/nearby/internal/usecase/geolocation"
)

// Service manages the minimal login record.
type Service struct {
	repo   Repository
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// Option tweaks a Service.
type Option func(*Service)

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// New creates a session service.
func New(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login creates a session for name and email.
func (s *Service) Login(ctx context.Context, name, email string) (domsession.User, error) {
	u, err := domsession.NewUser(s.newID(), name, email, s.now())
	if err != nil {
		return domsession.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return domsession.User{}, fmt.Errorf("login: %w", err)
	}
	s.logger.Info("session created", zap.String("session_id", u.ID))
	return u, nil
}

// Get returns the user of a session.
func (s *Service) Get(ctx context.Context, id string) (domsession.User, error) {
	return s.repo.Get(ctx, id)
}

// Logout ends a session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SetLocation caches the user's position on the session.
func (s *Service) SetLocation(ctx context.Context, id string, p geo.Point) error {
	if !p.Valid() {
		return fmt.Errorf("coordinates %v out of range: %w", p, domain.ErrInvalidInput)
	}
	return s.repo.SetLocation(ctx, id, p)
}

// Location returns the cached position of a session.
func (s *Service) Location(ctx context.Context, id string) (geo.Point, error) {
	return s.repo.Location(ctx, id)
}

// LocationProvider exposes the cached position of a session as a geolocation provider.
// A session without a cached position reports domain.ErrLocationUnavailable.
func (s *Service) LocationProvider(id string) geolocation.Provider {
	return geolocation.ProviderFunc(func(ctx context.Context) (geo.Point, error) {
		p, err := s.repo.Location(ctx, id)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSessionNotFound) {
			return geo.Point{}, fmt.Errorf("session %s: %w", id, domain.ErrLocationUnavailable)
		}
		return geo.Point{}, err
	})
}
