package geolocation

import (
	"context"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Provider yields the caller's current position.
type Provider interface {
	Locate(ctx context.Context) (geo.Point, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (geo.Point, error)

// Locate calls f.
func (f ProviderFunc) Locate(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}
