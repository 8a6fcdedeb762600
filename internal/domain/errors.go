package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrServiceNotFound signals a service id absent from the catalog.
	ErrServiceNotFound = errors.New("service not found")
	// ErrSessionNotFound signals an unknown or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrLocationUnavailable signals that the user's position could not be determined.
	// Callers recover by serving listings without distance data.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrInvalidInput signals a malformed request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrCatalogUnavailable signals that the service catalog could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
