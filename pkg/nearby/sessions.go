package nearby

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
)

// Login creates a session. Name and a valid email are required (ErrInvalidInput).
func (c *Client) Login(ctx context.Context, name, email string) (_ User, err error) {
	start := time.Now()
	defer func() { c.obs.observe("login", start, err) }()

	u, err := c.sessions.Login(ctx, name, email)
	if err != nil {
		return User{}, fmt.Errorf("login: %w", err)
	}
	return userFromDomain(u), nil
}

// User returns the user of a session, or ErrSessionNotFound.
func (c *Client) User(ctx context.Context, sessionID string) (_ User, err error) {
	start := time.Now()
	defer func() { c.obs.observe("user", start, err) }()

	u, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return User{}, fmt.Errorf("user: %w", err)
	}
	return userFromDomain(u), nil
}

// Logout ends a session.
func (c *Client) Logout(ctx context.Context, sessionID string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("logout", start, err) }()

	if err = c.sessions.Logout(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SetLocation remembers where the session's user is.
func (c *Client) SetLocation(ctx context.Context, sessionID string, loc Location) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("set_location", start, err) }()

	if err = c.sessions.SetLocation(ctx, sessionID, geo.Point{Lat: loc.Lat, Lng: loc.Lng}); err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	return nil
}

// Location returns the session's remembered location, or ErrLocationUnavailable.
func (c *Client) Location(ctx context.Context, sessionID string) (_ Location, err error) {
	start := time.Now()
	defer func() { c.obs.observe("location", start, err) }()

	pt, err := c.locator.GetUserLocation(ctx, c.sessions.LocationProvider(sessionID))
	if err != nil {
		return Location{}, fmt.Errorf("location: %w", err)
	}
	return Location{Lat: pt.Lat, Lng: pt.Lng}, nil
}

func userFromDomain(u domsession.User) User {
	return User{
		SessionID: u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}
