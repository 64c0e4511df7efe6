// Package service contains the business logic for the yard register API.
// Services validate inputs, enforce lifecycle rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/masouza/yard-register/internal/domain"
	"github.com/masouza/yard-register/internal/metrics"
	"github.com/masouza/yard-register/internal/repo"
)

// RegistrationService implements the check-in/check-out lifecycle for
// registrations.
type RegistrationService struct {
	repo repo.RegistrationRepo
}

// NewRegistrationService constructs a RegistrationService backed by the
// provided RegistrationRepo.
func NewRegistrationService(r repo.RegistrationRepo) *RegistrationService {
	return &RegistrationService{repo: r}
}

// Create normalizes and validates a draft, then persists it with status
// at_yard. When another registration with the same trailer plate is still
// at the yard, creation succeeds anyway and the returned warning names the
// conflicting record — a duplicate-plate-on-site alert, not a uniqueness
// constraint. The check is advisory and racy under concurrent creates.
//
// Returns a *domain.ValidationError carrying every failed check when the
// draft is invalid.
func (s *RegistrationService) Create(ctx context.Context, draft domain.Draft) (domain.Registration, *domain.DuplicateWarning, error) {
	draft.TrailerPlate = domain.NormalizePlate(draft.TrailerPlate)
	draft.TractorPlate = domain.NormalizePlate(draft.TractorPlate)

	if msgs := validateDraft(draft); len(msgs) > 0 {
		metrics.RegistrationsRejectedTotal.Inc()
		return domain.Registration{}, nil, &domain.ValidationError{Messages: msgs}
	}

	if draft.ArrivedAt.IsZero() {
		draft.ArrivedAt = time.Now().UTC()
	}

	var warning *domain.DuplicateWarning
	open, err := s.repo.FindOpenByPlate(ctx, draft.TrailerPlate)
	switch {
	case err == nil:
		warning = &domain.DuplicateWarning{
			Message: "a truck with this trailer plate is already at the yard",
			Registration: domain.DuplicateRecord{
				ID:         open.ID,
				DriverName: open.DriverName,
				Carrier:    open.Carrier,
				ArrivedAt:  open.ArrivedAt,
			},
		}
		metrics.DuplicatePlateWarningsTotal.Inc()
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Registration{}, nil, fmt.Errorf("service.RegistrationService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Registration{
		ArrivedAt:       draft.ArrivedAt,
		Carrier:         draft.Carrier,
		Client:          draft.Client,
		TrailerPlate:    draft.TrailerPlate,
		TractorPlate:    draft.TractorPlate,
		DriverName:      draft.DriverName,
		DriverDocument:  draft.DriverDocument,
		HasHelper:       draft.HasHelper,
		HelperName:      draft.HelperName,
		HelperDocument:  draft.HelperDocument,
		OperationType:   draft.OperationType,
		DriverSignature: draft.DriverSignature,
		Status:          domain.StatusAtYard,
	})
	if err != nil {
		return domain.Registration{}, nil, fmt.Errorf("service.RegistrationService.Create: %w", err)
	}

	metrics.RegistrationsCreatedTotal.Inc()
	return created, warning, nil
}

// RecordDeparture transitions a registration from at_yard to departed.
// Both the timestamp and the responsible-party signature are required
// (domain.ErrInvalidInput when missing). Returns domain.ErrNotFound for an
// unknown id and domain.ErrInvalidState when the registration has already
// departed — in that case none of its fields change.
func (s *RegistrationService) RecordDeparture(ctx context.Context, id uuid.UUID, departedAt time.Time, responsibleSignature string) (domain.Registration, error) {
	if departedAt.IsZero() {
		return domain.Registration{}, fmt.Errorf("%w: departure timestamp is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(responsibleSignature) == "" {
		return domain.Registration{}, fmt.Errorf("%w: responsible signature is required", domain.ErrInvalidInput)
	}

	reg, err := s.repo.SetDeparture(ctx, id, departedAt, responsibleSignature)
	if err == nil {
		metrics.DeparturesRecordedTotal.Inc()
		return reg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.RecordDeparture: %w", err)
	}

	// The guarded update matched nothing: either the id is unknown or the
	// registration has already departed. A lookup tells the two apart.
	if _, getErr := s.repo.GetByID(ctx, id); getErr == nil {
		return domain.Registration{}, fmt.Errorf("%w: departure already recorded", domain.ErrInvalidState)
	} else if !errors.Is(getErr, domain.ErrNotFound) {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.RecordDeparture: %w", getErr)
	}
	return domain.Registration{}, fmt.Errorf("service.RegistrationService.RecordDeparture: %w", domain.ErrNotFound)
}

// GetByID returns a single registration by ID.
func (s *RegistrationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.GetByID: %w", err)
	}
	return reg, nil
}

// List returns one page of registrations matching the filter plus the total
// match count. Always returns a non-nil slice so callers can safely range.
func (s *RegistrationService) List(ctx context.Context, filter domain.Filter, page domain.PaginationParams) ([]domain.Registration, int64, error) {
	regs, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.RegistrationService.List: %w", err)
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	return regs, total, nil
}

// Statistics returns the unfiltered full-table aggregate.
func (s *RegistrationService) Statistics(ctx context.Context) (domain.Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("service.RegistrationService.Statistics: %w", err)
	}
	return stats, nil
}

// validateDraft checks every field-level rule and accumulates all failures
// in check order — it never stops at the first problem, so the caller can
// show the user everything that needs fixing at once.
func validateDraft(d domain.Draft) []string {
	var msgs []string

	if strings.TrimSpace(d.Carrier) == "" {
		msgs = append(msgs, "carrier is required")
	}

	if strings.TrimSpace(d.TrailerPlate) == "" {
		msgs = append(msgs, "trailer plate is required")
	} else if !domain.IsValidPlate(d.TrailerPlate) {
		msgs = append(msgs, "trailer plate format is invalid")
	}

	if strings.TrimSpace(d.TractorPlate) != "" && !domain.IsValidPlate(d.TractorPlate) {
		msgs = append(msgs, "tractor plate format is invalid")
	}

	if strings.TrimSpace(d.DriverName) == "" {
		msgs = append(msgs, "driver name is required")
	}
	if strings.TrimSpace(d.DriverDocument) == "" {
		msgs = append(msgs, "driver document is required")
	}
	if strings.TrimSpace(d.Client) == "" {
		msgs = append(msgs, "client is required")
	}

	if d.OperationType == "" {
		msgs = append(msgs, "operation type is required")
	} else if !d.OperationType.Valid() {
		msgs = append(msgs, "operation type must be unload or collect")
	}

	if strings.TrimSpace(d.DriverSignature) == "" {
		msgs = append(msgs, "driver signature is required")
	}

	if d.HasHelper {
		if strings.TrimSpace(d.HelperName) == "" {
			msgs = append(msgs, "helper name is required when a helper is present")
		}
		if strings.TrimSpace(d.HelperDocument) == "" {
			msgs = append(msgs, "helper document is required when a helper is present")
		}
	}

	return msgs
}
