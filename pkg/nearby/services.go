package nearby

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/query"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
)

// Search filters and orders the catalog. Invalid coordinates in q.Near
// are ignored and the search runs without distance.
func (c *Client) Search(ctx context.Context, q Query) (_ []Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	p := paramsFromQuery(q)
	items, err := c.listing.Search(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.searched(len(items), p.HasLocation())

	out := make([]Listing, len(items))
	for i := range items {
		out[i] = listingFromDomain(&items[i])
	}
	return out, nil
}

// Service returns one listing. When near is non-nil and valid the listing carries its distance.
func (c *Client) Service(ctx context.Context, id string, near *Location) (_ Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("service", start, err) }()

	var from *geo.Point
	if near != nil {
		if pt := (geo.Point{Lat: near.Lat, Lng: near.Lng}); pt.Valid() {
			from = &pt
		}
	}

	item, err := c.listing.Get(ctx, id, from)
	if err != nil {
		return Listing{}, fmt.Errorf("get service: %w", err)
	}
	return listingFromDomain(&item), nil
}

// Categories returns the category labels in display order with their counts.
func (c *Client) Categories(ctx context.Context) (_ []Category, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	pills, err := c.listing.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	out := make([]Category, len(pills))
	for i, p := range pills {
		out[i] = Category{Label: p.Label, Count: p.Count}
	}
	return out, nil
}

// Views returns the view count of a service.
func (c *Client) Views(ctx context.Context, id string) (_ int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("views", start, err) }()

	n, err := c.views.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("views: %w", err)
	}
	return n, nil
}

// RecordView counts a view of a service, at most once per session.
// An empty sessionID always counts; an unknown one yields ErrSessionNotFound.
func (c *Client) RecordView(ctx context.Context, sessionID, id string) (_ ViewResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("record_view", start, err) }()

	n, counted, err := c.views.Increment(ctx, sessionID, id)
	if err != nil {
		return ViewResult{}, fmt.Errorf("record view: %w", err)
	}
	return ViewResult{Views: n, Counted: counted}, nil
}

func paramsFromQuery(q Query) query.Params {
	p := query.Params{
		Query:    q.Text,
		Category: q.Category,
	}
	if q.Near != nil {
		if pt := (geo.Point{Lat: q.Near.Lat, Lng: q.Near.Lng}); pt.Valid() {
			p = p.WithLocation(pt)
		}
	}
	if q.MaxDistanceKm != nil && !math.IsNaN(*q.MaxDistanceKm) {
		d := *q.MaxDistanceKm
		p.MaxDistanceKm = &d
	}
	if q.SortByDistance {
		p.SortBy = query.SortDistance
	}
	return p
}

func listingFromDomain(a *domsvc.Annotated) Listing {
	l := Listing{
		ID:             a.ID,
		CreatedAt:      a.CreatedAt,
		Title:          a.Title,
		Slug:           a.Slug,
		Description:    a.Description,
		Category:       a.Category,
		Image:          a.Image,
		Pitch:          a.Pitch,
		PriceRange:     a.PriceRange,
		ContactMethod:  a.ContactMethod,
		ContactDetails: a.ContactDetails,
		ServiceRadius:  a.ServiceRadius,
		Author: Author{
			ID:       a.Author.ID,
			Name:     a.Author.Name,
			Username: a.Author.Username,
			Image:    a.Author.Image,
			Bio:      a.Author.Bio,
		},
		Views:         a.Views,
		IsActive:      a.IsActive,
		Featured:      a.Featured,
		DistanceLabel: a.DistanceLabel(),
	}
	if a.Location != nil {
		l.Location = &Location{Lat: a.Location.Lat, Lng: a.Location.Lng}
	}
	if a.Distance != nil {
		d := *a.Distance
		l.DistanceKm = &d
	}
	return l
}
