package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/query"
	logpkg "github.com/kailas-cloud/nearby/internal/logger"
	"github.com/kailas-cloud/nearby/internal/metrics"
	geouc "github.com/kailas-cloud/nearby/internal/usecase/geolocation"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	listinguc "github.com/kailas-cloud/nearby/internal/usecase/listing"
	sessionuc "github.com/kailas-cloud/nearby/internal/usecase/session"
	viewsuc "github.com/kailas-cloud/nearby/internal/usecase/views"
)

// SessionHeader carries the caller's session id.
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 1 << 16

// Server is the HTTP API.
type Server struct {
	listing       *listinguc.Service
	views         *viewsuc.Service
	sessions      *sessionuc.Service
	geolocation   *geouc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	listing *listinguc.Service,
	views *viewsuc.Service,
	sessions *sessionuc.Service,
	geolocation *geouc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		listing:       listing,
		views:         views,
		sessions:      sessions,
		geolocation:   geolocation,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/categories", s.ListCategories)

	r.Route("/services", func(r chi.Router) {
		r.Get("/", s.ListServices)
		r.Get("/{id}", s.GetService)
		r.Get("/{id}/views", s.GetViews)
		r.Post("/{id}/views", s.IncrementViews)
	})

	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.Login)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.Logout)
		r.Get("/{id}/location", s.GetLocation)
		r.Put("/{id}/location", s.SetLocation)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// ListServices handles GET /services.
func (s *Server) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logpkg.FromContextOr(ctx, s.logger)

	params, rejected := query.Parse(r.URL.Query())
	for _, name := range rejected {
		metrics.InvalidParamsTotal.WithLabelValues(name).Inc()
		log.Debug("ignoring invalid numeric parameter",
			zap.String("param", name),
			zap.String("value", r.URL.Query().Get(name)),
		)
	}

	if !params.HasLocation() {
		if sid := r.Header.Get(SessionHeader); sid != "" {
			pt, err := s.geolocation.GetUserLocation(ctx, s.sessions.LocationProvider(sid))
			if err == nil {
				params = params.WithLocation(pt)
			} else {
				log.Debug("no session location, listing without distance", zap.Error(err))
			}
		}
	}

	items, err := s.listing.Search(ctx, params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if params.HasLocation() {
		writeJSON(w, http.StatusOK, locatedServicesToResponse(items))
		return
	}
	writeJSON(w, http.StatusOK, servicesToResponse(items))
}

// GetService handles GET /services/{id}.
func (s *Server) GetService(w http.ResponseWriter, r *http.Request) {
	var from *geo.Point
	if pt, ok := query.ParsePoint(r.URL.Query().Get("lat"), r.URL.Query().Get("lng")); ok {
		from = &pt
	}

	item, err := s.listing.Get(r.Context(), chi.URLParam(r, "id"), from)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if from != nil {
		writeJSON(w, http.StatusOK, locatedToResponse(&item))
		return
	}
	writeJSON(w, http.StatusOK, serviceToResponse(&item))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	pills, err := s.listing.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pillsToResponse(pills))
}

// GetViews handles GET /services/{id}/views.
func (s *Server) GetViews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := s.views.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ViewsResponse{ID: id, Views: n})
}

// IncrementViews handles POST /services/{id}/views.
func (s *Server) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, counted, err := s.views.Increment(r.Context(), r.Header.Get(SessionHeader), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ViewsResponse{ID: id, Views: n, Counted: &counted})
}

// Login handles POST /session.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := s.sessions.Login(r.Context(), req.Name, req.Email)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/session/"+u.ID)
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// GetSession handles GET /session/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	u, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(u))
}

// Logout handles DELETE /session/{id}.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Logout(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetLocation handles PUT /session/{id}/location.
func (s *Server) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "lat and lng are required")
		return
	}

	pt := geo.Point{Lat: *req.Lat, Lng: *req.Lng}
	if err := s.sessions.SetLocation(r.Context(), chi.URLParam(r, "id"), pt); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetLocation handles GET /session/{id}/location.
func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	pt, err := s.geolocation.GetUserLocation(r.Context(), s.sessions.LocationProvider(chi.URLParam(r, "id")))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pt)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody reads a JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
