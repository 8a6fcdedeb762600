package views

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/metrics"
)

// Service counts service views, at most once per session and service.
type Service struct {
	counter  Counter
	services ServiceChecker
	ledger   ViewLedger
	logger   *zap.Logger
}

// New creates a view counting service.
func New(counter Counter, services ServiceChecker, ledger ViewLedger, logger *zap.Logger) *Service {
	return &Service{
		counter:  counter,
		services: services,
		ledger:   ledger,
		logger:   logger,
	}
}

// Get returns the view count of a service.
func (s *Service) Get(ctx context.Context, id string) (int64, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.counter.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return n, nil
}

// Increment records a view. A session that already viewed the service gets the
// current count back with counted=false. An empty sessionID is never deduplicated;
// an unknown one yields domain.ErrSessionNotFound.
func (s *Service) Increment(ctx context.Context, sessionID, id string) (count int64, counted bool, err error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return 0, false, err
	}

	if sessionID != "" {
		first, err := s.ledger.MarkViewed(ctx, sessionID, id)
		if err != nil {
			return 0, false, fmt.Errorf("mark viewed: %w", err)
		}
		if !first {
			metrics.ViewIncrementsTotal.WithLabelValues("duplicate").Inc()
			n, err := s.counter.Get(ctx, id)
			if err != nil {
				return 0, false, fmt.Errorf("get views: %w", err)
			}
			return n, false, nil
		}
	}

	n, err := s.counter.Increment(ctx, id)
	if err != nil {
		// Give the mark back so a retry in the same session can count.
		if sessionID != "" {
			if uerr := s.ledger.UnmarkViewed(ctx, sessionID, id); uerr != nil {
				s.logger.Warn("unmark view failed", zap.String("service_id", id), zap.Error(uerr))
			}
		}
		metrics.ViewIncrementsTotal.WithLabelValues("error").Inc()
		return 0, false, fmt.Errorf("increment views: %w", err)
	}

	metrics.ViewIncrementsTotal.WithLabelValues("counted").Inc()
	s.logger.Debug("view counted", zap.String("service_id", id), zap.Int64("views", n))
	return n, true, nil
}

func (s *Service) ensureExists(ctx context.Context, id string) error {
	ok, err := s.services.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check service: %w", err)
	}
	if !ok {
		return fmt.Errorf("service %q: %w", id, domain.ErrServiceNotFound)
	}
	return nil
}
