package session

import (
	"context"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
)

// Repository persists session users and their cached location.
type Repository interface {
	Save(ctx context.Context, u domsession.User) error
	Get(ctx context.Context, id string) (domsession.User, error)
	Delete(ctx context.Context, id string) error
	SetLocation(ctx context.Context, id string, p geo.Point) error
	Location(ctx context.Context, id string) (geo.Point, error)
}
