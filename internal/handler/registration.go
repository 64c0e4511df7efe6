package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/masouza/yard-register/internal/domain"
)

// createRegistrationRequest is the JSON body for POST /registrations.
// arrived_at is optional; the service defaults it to the current time.
type createRegistrationRequest struct {
	ArrivedAt       *time.Time `json:"arrived_at"`
	Carrier         string     `json:"carrier"`
	Client          string     `json:"client"`
	TrailerPlate    string     `json:"trailer_plate"`
	TractorPlate    string     `json:"tractor_plate"`
	DriverName      string     `json:"driver_name"`
	DriverDocument  string     `json:"driver_document"`
	HasHelper       bool       `json:"has_helper"`
	HelperName      string     `json:"helper_name"`
	HelperDocument  string     `json:"helper_document"`
	OperationType   string     `json:"operation_type"`
	DriverSignature string     `json:"driver_signature"`
}

// departureRequest is the JSON body for PATCH /registrations/{id}/departure.
type departureRequest struct {
	DepartedAt           *time.Time `json:"departed_at"`
	ResponsibleSignature string     `json:"responsible_signature"`
}

// registrationEnvelope wraps a single registration, with the optional
// duplicate-plate advisory on creation.
type registrationEnvelope struct {
	Data    domain.Registration      `json:"data"`
	Warning *domain.DuplicateWarning `json:"warning,omitempty"`
}

// listResponse is the paginated collection envelope.
type listResponse struct {
	Data       []domain.Registration `json:"data"`
	Pagination pagination            `json:"pagination"`
}

type pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// handleCreateRegistration handles POST /registrations.
// Responds 201 with the created record (plus an advisory warning when a
// truck with the same trailer plate is already at the yard), or 400 with
// the full validation error list.
func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req createRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	draft := domain.Draft{
		Carrier:         req.Carrier,
		Client:          req.Client,
		TrailerPlate:    req.TrailerPlate,
		TractorPlate:    req.TractorPlate,
		DriverName:      req.DriverName,
		DriverDocument:  req.DriverDocument,
		HasHelper:       req.HasHelper,
		HelperName:      req.HelperName,
		HelperDocument:  req.HelperDocument,
		OperationType:   domain.OperationType(req.OperationType),
		DriverSignature: req.DriverSignature,
	}
	if req.ArrivedAt != nil {
		draft.ArrivedAt = *req.ArrivedAt
	}

	created, warning, err := s.registrations.Create(r.Context(), draft)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid registration data", verr.Messages)
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registrationEnvelope{Data: created, Warning: warning})
}

// handleListRegistrations handles GET /registrations.
// Supports carrier, client, operation_type, and status filters plus
// ?page= and ?limit= (defaults: page=1, limit=50, max=100).
func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Carrier:       q.Get("carrier"),
		Client:        q.Get("client"),
		OperationType: domain.OperationType(q.Get("operation_type")),
		Status:        domain.Status(q.Get("status")),
	}
	page := domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))

	regs, total, err := s.registrations.List(r.Context(), filter, page)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: regs,
		Pagination: pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: (total + int64(page.Limit) - 1) / int64(page.Limit),
		},
	})
}

// handleGetRegistration handles GET /registrations/{id}.
func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid registration id", nil)
		return
	}

	reg, err := s.registrations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "registration not found", nil)
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, registrationEnvelope{Data: reg})
}

// handleRecordDeparture handles PATCH /registrations/{id}/departure.
// Responds 200 with the updated record, 400 when the timestamp or signature
// is missing or the registration has already departed, 404 for an unknown id.
func (s *Server) handleRecordDeparture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid registration id", nil)
		return
	}

	var req departureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var departedAt time.Time
	if req.DepartedAt != nil {
		departedAt = *req.DepartedAt
	}

	updated, err := s.registrations.RecordDeparture(r.Context(), id, departedAt, req.ResponsibleSignature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", unwrapMessage(err), nil)
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "registration not found", nil)
		case errors.Is(err, domain.ErrInvalidState):
			writeError(w, http.StatusBadRequest, "invalid_state", unwrapMessage(err), nil)
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, registrationEnvelope{Data: updated})
}

// handleStatistics handles GET /registrations/statistics.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.registrations.Statistics(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// queryInt parses a query parameter into *int; nil when absent or malformed
// so pagination falls back to its defaults.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
