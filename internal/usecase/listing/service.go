package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/category"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/query"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
	"github.com/kailas-cloud/nearby/internal/metrics"
)

// Service answers listing queries over the catalog.
type Service struct {
	catalog Catalog
	logger  *zap.Logger
}

// New creates a listing service.
func New(catalog Catalog, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, logger: logger}
}

// Search loads the catalog and runs the query pipeline over it.
func (s *Service) Search(ctx context.Context, p query.Params) ([]domsvc.Annotated, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	results := QueryServices(all, p)

	sortLabel := "none"
	if p.SortBy != "" {
		sortLabel = p.SortBy
	}
	metrics.ListingQueriesTotal.WithLabelValues(sortLabel, strconv.FormatBool(p.HasLocation())).Inc()
	metrics.ListingResultSize.Observe(float64(len(results)))

	s.logger.Debug("listing query",
		zap.String("query", p.Query),
		zap.String("category", p.Category),
		zap.Bool("located", p.HasLocation()),
		zap.String("sort", p.SortBy),
		zap.Int("total", len(all)),
		zap.Int("matched", len(results)),
	)

	return results, nil
}

// Get returns one service by id. When from is non-nil the result carries the distance to it.
func (s *Service) Get(ctx context.Context, id string, from *geo.Point) (domsvc.Annotated, error) {
	all, err := s.load(ctx)
	if err != nil {
		return domsvc.Annotated{}, err
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		if from != nil {
			return domsvc.Annotate(all[i], *from), nil
		}
		return domsvc.Plain(all[i]), nil
	}
	return domsvc.Annotated{}, fmt.Errorf("service %q: %w", id, domain.ErrServiceNotFound)
}

// Exists reports whether a service id is present in the catalog.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id, nil)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Categories returns the category pills of the full catalog in display order.
func (s *Service) Categories(ctx context.Context) ([]category.Pill, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(all))
	for i := range all {
		labels[i] = all[i].Category
	}
	return category.Pills(labels), nil
}

func (s *Service) load(ctx context.Context) ([]domsvc.Service, error) {
	all, err := s.catalog.List(ctx)
	if err != nil {
		metrics.CatalogLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return all, nil
}
