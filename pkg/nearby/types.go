package nearby

import "time"

// Location is a WGS-84 coordinate pair in degrees.
type Location struct {
	Lat float64
	Lng float64
}

// Author is the provider who published a listing.
type Author struct {
	ID       string
	Name     string
	Username string
	Image    string
	Bio      string
}

// Listing is a service from the catalog, with its distance from the
// query location when one was given.
type Listing struct {
	ID             string
	CreatedAt      time.Time
	Title          string
	Slug           string
	Description    string
	Category       string
	Image          string
	Pitch          string
	Location       *Location
	PriceRange     string
	ContactMethod  string
	ContactDetails string
	ServiceRadius  float64
	Author         Author
	Views          int64
	IsActive       bool
	Featured       bool

	DistanceKm    *float64 // nil when either side has no location
	DistanceLabel string   // "850m", "3.2km" or ""
}

// Query selects and orders listings. The zero value returns the whole catalog.
type Query struct {
	Text           string    // case-insensitive match on title, description, author
	Category       string    // exact label
	Near           *Location // enables distance annotation
	MaxDistanceKm  *float64  // needs Near
	SortByDistance bool      // needs Near; listings without location go last
}

// Km is a helper for Query.MaxDistanceKm.
func Km(v float64) *float64 { return &v }

// Category is a category label with the number of listings carrying it.
type Category struct {
	Label string
	Count int
}

// User is a logged-in session.
type User struct {
	SessionID string
	Name      string
	Email     string
	Image     string
	CreatedAt time.Time
}

// ViewResult is the outcome of Client.RecordView.
type ViewResult struct {
	Views   int64
	Counted bool // false when the session had already viewed the service
}
