package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"12.5", 12.5, true},
		{" -34.05 ", -34.05, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
		{"1e3", 1000, true},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseFloat(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParse_AllParams(t *testing.T) {
	v := url.Values{
		"query":       {"Surf "},
		"category":    {"surfing"},
		"lat":         {"-34.0489"},
		"lng":         {"24.9087"},
		"maxDistance": {"5"},
		"sortBy":      {"distance"},
	}

	p, rej := Parse(v)
	if len(rej) != 0 {
		t.Fatalf("unexpected rejected params: %v", rej)
	}
	if p.Query != "Surf " {
		t.Errorf("query: got %q", p.Query)
	}
	if p.Category != "surfing" {
		t.Errorf("category: got %q", p.Category)
	}
	if !p.HasLocation() || p.UserLocation.Lat != -34.0489 || p.UserLocation.Lng != 24.9087 {
		t.Errorf("location: got %+v", p.UserLocation)
	}
	if p.MaxDistanceKm == nil || *p.MaxDistanceKm != 5 {
		t.Errorf("maxDistance: got %v", p.MaxDistanceKm)
	}
	if p.SortBy != SortDistance {
		t.Errorf("sortBy: got %q", p.SortBy)
	}
}

func TestParse_Empty(t *testing.T) {
	p, rej := Parse(url.Values{})
	if len(rej) != 0 {
		t.Fatalf("unexpected rejected params: %v", rej)
	}
	if p.Query != "" || p.Category != "" || p.HasLocation() || p.MaxDistanceKm != nil || p.SortBy != "" {
		t.Fatalf("expected zero params, got %+v", p)
	}
}

func TestParse_InvalidNumbersAreAbsent(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"nan lat", url.Values{"lat": {"NaN"}, "lng": {"24.9"}}},
		{"garbage lng", url.Values{"lat": {"-34"}, "lng": {"east"}}},
		{"missing lng", url.Values{"lat": {"-34"}}},
		{"out of range", url.Values{"lat": {"95"}, "lng": {"24.9"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rej := Parse(tt.values)
			if p.HasLocation() {
				t.Fatalf("expected no location, got %+v", p.UserLocation)
			}
			if len(rej) == 0 {
				t.Fatal("expected rejected params to be reported")
			}
		})
	}
}

func TestParse_InvalidMaxDistance(t *testing.T) {
	for _, raw := range []string{"far", "NaN", "  ", "5km"} {
		p, rej := Parse(url.Values{"maxDistance": {raw}})
		if p.MaxDistanceKm != nil {
			t.Errorf("maxDistance=%q: expected absent, got %v", raw, *p.MaxDistanceKm)
		}
		if len(rej) != 1 || rej[0] != "maxDistance" {
			t.Errorf("maxDistance=%q: rejected = %v", raw, rej)
		}
	}
}

func TestParse_MaxDistanceKeepsNegativeAndInfinite(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"-1", -1},
		{"0", 0},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"1e400", math.Inf(1)},
	}
	for _, tt := range tests {
		p, rej := Parse(url.Values{"maxDistance": {tt.raw}})
		if len(rej) != 0 {
			t.Errorf("maxDistance=%q: unexpected rejected %v", tt.raw, rej)
		}
		if p.MaxDistanceKm == nil || *p.MaxDistanceKm != tt.want {
			t.Errorf("maxDistance=%q: got %v, want %v", tt.raw, p.MaxDistanceKm, tt.want)
		}
	}
}

func TestParse_QueryKeptVerbatim(t *testing.T) {
	p, _ := Parse(url.Values{"query": {"lessons "}})
	if p.Query != "lessons " {
		t.Fatalf("query: got %q, want trailing space kept", p.Query)
	}
}

func TestParse_UnknownSortIgnored(t *testing.T) {
	p, _ := Parse(url.Values{"sortBy": {"price"}})
	if p.SortBy != "" {
		t.Fatalf("expected empty sort, got %q", p.SortBy)
	}
}

func TestWithLocation_DoesNotAliasOriginal(t *testing.T) {
	var p Params
	q := p.WithLocation(geoPoint(1, 2))
	if p.HasLocation() {
		t.Fatal("WithLocation mutated receiver")
	}
	if !q.HasLocation() || q.UserLocation.Lat != 1 {
		t.Fatalf("unexpected location %+v", q.UserLocation)
	}
}

func geoPoint(lat, lng float64) geo.Point { return geo.Point{Lat: lat, Lng: lng} }
