package query

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// SortDistance orders results by ascending distance from the user.
const SortDistance = "distance"

// Params holds one listing query. Zero values mean "not applied".
type Params struct {
	Query         string
	Category      string
	UserLocation  *geo.Point
	MaxDistanceKm *float64
	SortBy        string
}

// HasLocation reports whether a user location is set.
func (p Params) HasLocation() bool { return p.UserLocation != nil }

// WithLocation returns a copy of p with the user location set.
func (p Params) WithLocation(pt geo.Point) Params {
	p.UserLocation = &pt
	return p
}

// Rejected lists raw parameters that were supplied but could not be used.
type Rejected []string

// ParseFloat parses a numeric parameter. Empty, malformed and non-finite
// values yield ok=false.
func ParseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDistance parses a radius. Only empty, malformed and NaN values yield
// ok=false. Negative and infinite radii are kept, and a literal too large
// for float64 (1e400) becomes +Inf.
func ParseDistance(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Parse builds Params from URL query values. It never fails: invalid
// numbers are treated as absent and reported in Rejected.
func Parse(v url.Values) (Params, Rejected) {
	var (
		p   Params
		rej Rejected
	)

	p.Query = v.Get("query")
	p.Category = v.Get("category")

	if loc, ok, bad := parseLocation(v); ok {
		p.UserLocation = &loc
	} else {
		rej = append(rej, bad...)
	}

	if raw := v.Get("maxDistance"); raw != "" {
		if d, ok := ParseDistance(raw); ok {
			p.MaxDistanceKm = &d
		} else {
			rej = append(rej, "maxDistance")
		}
	}

	if v.Get("sortBy") == SortDistance {
		p.SortBy = SortDistance
	}

	return p, rej
}

// ParsePoint parses a lat/lng pair, requiring both to be finite and in range.
func ParsePoint(rawLat, rawLng string) (geo.Point, bool) {
	lat, okLat := ParseFloat(rawLat)
	lng, okLng := ParseFloat(rawLng)
	if !okLat || !okLng || !geo.ValidCoordinates(lat, lng) {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lng: lng}, true
}

func parseLocation(v url.Values) (geo.Point, bool, []string) {
	rawLat, rawLng := v.Get("lat"), v.Get("lng")
	if rawLat == "" && rawLng == "" {
		return geo.Point{}, false, nil
	}
	pt, ok := ParsePoint(rawLat, rawLng)
	if !ok {
		return geo.Point{}, false, []string{"lat", "lng"}
	}
	return pt, true, nil
}
