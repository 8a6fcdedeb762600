package views

import "context"

// Counter persists view counts.
type Counter interface {
	Get(ctx context.Context, id string) (int64, error)
	Increment(ctx context.Context, id string) (int64, error)
}

// ServiceChecker confirms a service id exists in the catalog.
type ServiceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ViewLedger remembers which services a session already viewed.
// Marks live with the session and go away when it expires or logs out.
type ViewLedger interface {
	MarkViewed(ctx context.Context, sessionID, serviceID string) (bool, error)
	UnmarkViewed(ctx context.Context, sessionID, serviceID string) error
}
