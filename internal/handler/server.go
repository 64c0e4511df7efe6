// Package handler implements the HTTP handlers for the yard register API.
// All handlers are methods on Server. Methods are split into
// domain-specific files (health.go, registration.go, report.go) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/masouza/yard-register/internal/domain"
)

// RegistrationServicer defines the business operations the registration
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types".
// It lets handler tests inject a mock without touching the database or
// service layer.
type RegistrationServicer interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Registration, *domain.DuplicateWarning, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error)
	List(ctx context.Context, filter domain.Filter, page domain.PaginationParams) ([]domain.Registration, int64, error)
	RecordDeparture(ctx context.Context, id uuid.UUID, departedAt time.Time, responsibleSignature string) (domain.Registration, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}

// ReportServicer defines the report rendering operation the report handler
// depends on.
type ReportServicer interface {
	Render(ctx context.Context, filter domain.Filter) ([]byte, error)
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	registrations RegistrationServicer
	reports       ReportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(registrations RegistrationServicer, reports ReportServicer) *Server {
	return &Server{registrations: registrations, reports: reports}
}

// Routes returns the chi router for all API endpoints.
// Fixed paths (statistics, report) are registered before the {id} routes so
// chi never treats them as identifiers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/registrations", func(r chi.Router) {
		r.Post("/", s.handleCreateRegistration)
		r.Get("/", s.handleListRegistrations)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/report", s.handleReport)
		r.Get("/{id}", s.handleGetRegistration)
		r.Patch("/{id}/departure", s.handleRecordDeparture)
	})

	return r
}
