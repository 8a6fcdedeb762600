package nearby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/db/memory"
	dbRedis "github.com/kailas-cloud/nearby/internal/db/redis"
	"github.com/kailas-cloud/nearby/internal/domain/category"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/query"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
	catalogrepo "github.com/kailas-cloud/nearby/internal/repository/catalog"
	sessionrepo "github.com/kailas-cloud/nearby/internal/repository/session"
	viewsrepo "github.com/kailas-cloud/nearby/internal/repository/views"
	geouc "github.com/kailas-cloud/nearby/internal/usecase/geolocation"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	listinguc "github.com/kailas-cloud/nearby/internal/usecase/listing"
	sessionuc "github.com/kailas-cloud/nearby/internal/usecase/session"
	viewsuc "github.com/kailas-cloud/nearby/internal/usecase/views"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "nearby:"
	defaultSessionTTL       = 720 * time.Hour
)

// Internal interfaces, swapped for mocks in tests.
type listingUseCase interface {
	Search(ctx context.Context, p query.Params) ([]domsvc.Annotated, error)
	Get(ctx context.Context, id string, from *geo.Point) (domsvc.Annotated, error)
	Categories(ctx context.Context) ([]category.Pill, error)
}

type viewsUseCase interface {
	Get(ctx context.Context, id string) (int64, error)
	Increment(ctx context.Context, sessionID, id string) (int64, bool, error)
}

type sessionUseCase interface {
	Login(ctx context.Context, name, email string) (domsession.User, error)
	Get(ctx context.Context, id string) (domsession.User, error)
	Logout(ctx context.Context, id string) error
	SetLocation(ctx context.Context, id string, p geo.Point) error
	LocationProvider(id string) geouc.Provider
}

type locator interface {
	GetUserLocation(ctx context.Context, p geouc.Provider) (geo.Point, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the nearby SDK entry point.
type Client struct {
	store    db.Store
	listing  listingUseCase
	views    viewsUseCase
	sessions sessionUseCase
	locator  locator
	health   healthUseCase
	obs      *observer
}

// New creates a Client and connects to the store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:     "memory",
		keyPrefix:  defaultKeyPrefix,
		sessionTTL: defaultSessionTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.catalogPath == "" {
		return nil, errors.New("nearby: catalog path required (use WithCatalog)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("nearby: store not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, fmt.Errorf("nearby: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("nearby: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "memory":
		s, err := memory.NewStore()
		if err != nil {
			return nil, fmt.Errorf("nearby: create memory store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("nearby: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	// Internal layers log through zap; SDK callers get slog via the observer.
	logger := zap.NewNop()

	catalog := catalogrepo.New(cfg.catalogPath, logger)
	listing := listinguc.New(catalog, logger)

	sessions := sessionrepo.New(store, cfg.keyPrefix, cfg.sessionTTL)

	return &Client{
		store:    store,
		listing:  listing,
		views:    viewsuc.New(viewsrepo.New(store, cfg.keyPrefix), listing, sessions, logger),
		sessions: sessionuc.New(sessions, logger),
		locator:  geouc.New(cfg.locateTimeout, logger),
		health:   healthuc.New(store, catalog),
		obs:      obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
