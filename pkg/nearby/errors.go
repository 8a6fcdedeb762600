package nearby

import "github.com/kailas-cloud/nearby/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrServiceNotFound     = domain.ErrServiceNotFound
	ErrSessionNotFound     = domain.ErrSessionNotFound
	ErrLocationUnavailable = domain.ErrLocationUnavailable
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrCatalogUnavailable  = domain.ErrCatalogUnavailable
)
