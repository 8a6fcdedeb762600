package listing

import (
	"context"

	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
)

// Catalog is the read-only source of service records.
type Catalog interface {
	List(ctx context.Context) ([]domsvc.Service, error)
}
