package chi

import (
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/category"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
	domsession "github.com/kailas-cloud/nearby/internal/domain/session"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
)

// ServiceResponse mirrors the catalog record.
type ServiceResponse struct {
	ID             string         `json:"_id"`
	CreatedAt      string         `json:"_createdAt,omitempty"`
	Title          string         `json:"title"`
	Slug           SlugResponse   `json:"slug"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Image          string         `json:"image,omitempty"`
	Pitch          string         `json:"pitch,omitempty"`
	Location       *geo.Point     `json:"location,omitempty"`
	PriceRange     string         `json:"priceRange,omitempty"`
	ContactMethod  string         `json:"contactMethod,omitempty"`
	ContactDetails string         `json:"contactDetails,omitempty"`
	ServiceRadius  float64        `json:"serviceRadius"`
	Author         AuthorResponse `json:"author"`
	Views          int64          `json:"views"`
	IsActive       bool           `json:"isActive"`
	Featured       bool           `json:"featured"`
}

// LocatedServiceResponse is a ServiceResponse for a request that carried a user
// location. Distance is null for services without a location of their own.
type LocatedServiceResponse struct {
	ServiceResponse
	Distance      *float64 `json:"distance"`
	DistanceLabel string   `json:"distanceLabel,omitempty"`
}

// SlugResponse is the URL slug object.
type SlugResponse struct {
	Current string `json:"current"`
}

// AuthorResponse is the listing author.
type AuthorResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// CategoryResponse is a category pill.
type CategoryResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ViewsResponse reports a service's view count.
type ViewsResponse struct {
	ID      string `json:"id"`
	Views   int64  `json:"views"`
	Counted *bool  `json:"counted,omitempty"`
}

// LoginRequest is the POST /session body.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LocationRequest is the PUT /session/{id}/location body.
type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// UserResponse is the session user.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Image     string `json:"image"`
	CreatedAt string `json:"createdAt"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serviceToResponse(a *domsvc.Annotated) ServiceResponse {
	resp := ServiceResponse{
		ID:             a.ID,
		Title:          a.Title,
		Slug:           SlugResponse{Current: a.Slug},
		Description:    a.Description,
		Category:       a.Category,
		Image:          a.Image,
		Pitch:          a.Pitch,
		Location:       a.Location,
		PriceRange:     a.PriceRange,
		ContactMethod:  a.ContactMethod,
		ContactDetails: a.ContactDetails,
		ServiceRadius:  a.ServiceRadius,
		Author: AuthorResponse{
			ID:       a.Author.ID,
			Name:     a.Author.Name,
			Username: a.Author.Username,
			Image:    a.Author.Image,
			Bio:      a.Author.Bio,
		},
		Views:    a.Views,
		IsActive: a.IsActive,
		Featured: a.Featured,
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return resp
}

func locatedToResponse(a *domsvc.Annotated) LocatedServiceResponse {
	return LocatedServiceResponse{
		ServiceResponse: serviceToResponse(a),
		Distance:        a.Distance,
		DistanceLabel:   a.DistanceLabel(),
	}
}

func servicesToResponse(items []domsvc.Annotated) []ServiceResponse {
	out := make([]ServiceResponse, len(items))
	for i := range items {
		out[i] = serviceToResponse(&items[i])
	}
	return out
}

func locatedServicesToResponse(items []domsvc.Annotated) []LocatedServiceResponse {
	out := make([]LocatedServiceResponse, len(items))
	for i := range items {
		out[i] = locatedToResponse(&items[i])
	}
	return out
}

func pillsToResponse(pills []category.Pill) []CategoryResponse {
	out := make([]CategoryResponse, len(pills))
	for i, p := range pills {
		out[i] = CategoryResponse{Label: p.Label, Count: p.Count}
	}
	return out
}

func userToResponse(u domsession.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}
