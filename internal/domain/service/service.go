package service

import (
	"strings"
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Author is the provider who published a listing.
type Author struct {
	ID       string
	Name     string
	Username string
	Image    string
	Bio      string
}

// Service is a read-only listing record sourced from the catalog.
// Location is nil when the provider did not pin one.
type Service struct {
	ID             string
	CreatedAt      time.Time
	Title          string
	Slug           string
	Description    string
	Category       string
	Image          string
	Pitch          string
	Location       *geo.Point
	PriceRange     string
	ContactMethod  string
	ContactDetails string
	ServiceRadius  float64
	Author         Author
	Views          int64
	IsActive       bool
	Featured       bool
}

// Matches reports whether the lowercased needle is a substring of the title,
// description, author name or author username.
func (s *Service) Matches(needle string) bool {
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle) ||
		strings.Contains(strings.ToLower(s.Author.Name), needle) ||
		strings.Contains(strings.ToLower(s.Author.Username), needle)
}

// Annotated is a Service paired with its distance from the user.
// Distance is nil when either side has no location.
type Annotated struct {
	Service
	Distance *float64
}

// Annotate copies s and attaches the distance to from, if s has a location.
func Annotate(s Service, from geo.Point) Annotated {
	a := Annotated{Service: s}
	if s.Location != nil {
		d := geo.DistanceKm(from, *s.Location)
		a.Distance = &d
	}
	return a
}

// Plain wraps s without distance data.
func Plain(s Service) Annotated {
	return Annotated{Service: s}
}

// DistanceLabel returns the formatted distance, or "" when unknown.
func (a *Annotated) DistanceLabel() string {
	if a.Distance == nil {
		return ""
	}
	return geo.FormatDistance(*a.Distance)
}
