package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/metrics"
)

// DefaultTimeout bounds a lookup when no timeout is configured.
const DefaultTimeout = 8 * time.Second

// Service resolves the user's position with a bounded wait.
type Service struct {
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a geolocation service. A non-positive timeout uses DefaultTimeout.
func New(timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{timeout: timeout, logger: logger}
}

// GetUserLocation asks p for a position. Any failure, including the timeout
// and out-of-range coordinates, wraps domain.ErrLocationUnavailable.
func (s *Service) GetUserLocation(ctx context.Context, p Provider) (geo.Point, error) {
	if p == nil {
		metrics.LocationLookupsTotal.WithLabelValues("unavailable").Inc()
		return geo.Point{}, fmt.Errorf("no provider: %w", domain.ErrLocationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		pt  geo.Point
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pt, err := p.Locate(ctx)
		ch <- result{pt: pt, err: err}
	}()

	select {
	case <-ctx.Done():
		metrics.LocationLookupsTotal.WithLabelValues("timeout").Inc()
		s.logger.Debug("location lookup timed out", zap.Duration("timeout", s.timeout))
		return geo.Point{}, fmt.Errorf("locate: %w: %w", domain.ErrLocationUnavailable, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			metrics.LocationLookupsTotal.WithLabelValues("unavailable").Inc()
			if errors.Is(r.err, domain.ErrLocationUnavailable) {
				return geo.Point{}, r.err
			}
			return geo.Point{}, fmt.Errorf("locate: %w: %w", domain.ErrLocationUnavailable, r.err)
		}
		if !r.pt.Valid() {
			metrics.LocationLookupsTotal.WithLabelValues("unavailable").Inc()
			return geo.Point{}, fmt.Errorf("locate: invalid fix %v: %w", r.pt, domain.ErrLocationUnavailable)
		}
		metrics.LocationLookupsTotal.WithLabelValues("ok").Inc()
		return r.pt, nil
	}
}
