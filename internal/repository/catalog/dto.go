package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/category"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
)

// fileDTO is the on-disk catalog layout: {"services": [...]}.
type fileDTO struct {
	Services []serviceDTO `json:"services"`
}

type serviceDTO struct {
	ID        string `json:"_id"`
	CreatedAt string `json:"_createdAt"`
	Title     string `json:"title"`
	Slug      struct {
		Current string `json:"current"`
	} `json:"slug"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	Image          string        `json:"image"`
	Pitch          string        `json:"pitch"`
	Location       *locationDTO  `json:"location"`
	PriceRange     string        `json:"priceRange"`
	ContactMethod  string        `json:"contactMethod"`
	ContactDetails string        `json:"contactDetails"`
	ServiceRadius  flexibleFloat `json:"serviceRadius"`
	Author         authorDTO     `json:"author"`
	Views          int64         `json:"views"`
	IsActive       bool          `json:"isActive"`
	Featured       bool          `json:"featured"`
}

type locationDTO struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type authorDTO struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
	Bio      string `json:"bio"`
}

// flexibleFloat accepts both JSON numbers and numeric strings ("5", "12.5").
// Anything else decodes as 0.
type flexibleFloat float64

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode numeric string: %w", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexibleFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode number: %w", err)
	}
	*f = flexibleFloat(v)
	return nil
}

// toDomain converts a catalog entry into a domain Service.
// A location is kept only when both coordinates are present and in range.
func (d *serviceDTO) toDomain() domsvc.Service {
	s := domsvc.Service{
		ID:             d.ID,
		Title:          d.Title,
		Slug:           d.Slug.Current,
		Description:    d.Description,
		Category:       d.Category,
		Image:          d.Image,
		Pitch:          d.Pitch,
		PriceRange:     d.PriceRange,
		ContactMethod:  d.ContactMethod,
		ContactDetails: d.ContactDetails,
		ServiceRadius:  float64(d.ServiceRadius),
		Author: domsvc.Author{
			ID:       d.Author.ID,
			Name:     d.Author.Name,
			Username: d.Author.Username,
			Image:    d.Author.Image,
			Bio:      d.Author.Bio,
		},
		Views:    d.Views,
		IsActive: d.IsActive,
		Featured: d.Featured,
	}

	if s.Category == "" {
		s.Category = category.Other
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		s.CreatedAt = t
	}
	if d.Location != nil && d.Location.Lat != nil && d.Location.Lng != nil {
		if p := (geo.Point{Lat: *d.Location.Lat, Lng: *d.Location.Lng}); p.Valid() {
			s.Location = &p
		}
	}

	return s
}
