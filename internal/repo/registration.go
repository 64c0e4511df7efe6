// Package repo contains all database access logic for the yard register API.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/masouza/yard-register/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RegistrationRepo defines the persistence operations for Registrations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RegistrationRepo interface {
	// Create inserts a new registration and returns the persisted record
	// (with DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)

	// GetByID retrieves a single registration by its UUID primary key.
	// Returns domain.ErrNotFound if no registration with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error)

	// List returns one page of registrations matching the filter, ordered by
	// arrived_at descending, plus the total number of matching rows before
	// pagination. A page past the end yields an empty slice and a valid total.
	List(ctx context.Context, filter domain.Filter, page domain.PaginationParams) ([]domain.Registration, int64, error)

	// FindOpenByPlate returns the oldest registration with the given trailer
	// plate that is still at the yard. Returns domain.ErrNotFound when none.
	FindOpenByPlate(ctx context.Context, trailerPlate string) (domain.Registration, error)

	// SetDeparture records the departure on a registration that is still at
	// the yard, transitioning it to departed in a single guarded update.
	// Returns domain.ErrNotFound when no at-yard row with that ID exists —
	// the caller distinguishes "unknown id" from "already departed".
	SetDeparture(ctx context.Context, id uuid.UUID, departedAt time.Time, responsibleSignature string) (domain.Registration, error)

	// Statistics computes the unfiltered full-table aggregate.
	Statistics(ctx context.Context) (domain.Statistics, error)
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db db
}

// NewRegistrationRepo constructs a RegistrationRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRegistrationRepo(db db) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

// registrationColumns is the column list shared by every SELECT and RETURNING
// clause, kept in one place so scanRegistration stays in sync with it.
const registrationColumns = `id, arrived_at, carrier, client, trailer_plate, tractor_plate,
		driver_name, driver_document, has_helper, helper_name, helper_document,
		operation_type, driver_signature, departed_at, responsible_signature,
		status, created_at, updated_at`

func (r *pgRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const q = `
		INSERT INTO registrations (
			arrived_at, carrier, client, trailer_plate, tractor_plate,
			driver_name, driver_document, has_helper, helper_name, helper_document,
			operation_type, driver_signature, status
		)
		VALUES (
			@arrived_at, @carrier, @client, @trailer_plate, @tractor_plate,
			@driver_name, @driver_document, @has_helper, @helper_name, @helper_document,
			@operation_type, @driver_signature, 'at_yard'
		)
		RETURNING ` + registrationColumns

	args := pgx.NamedArgs{
		"arrived_at":       reg.ArrivedAt,
		"carrier":          reg.Carrier,
		"client":           reg.Client,
		"trailer_plate":    reg.TrailerPlate,
		"tractor_plate":    nullIfEmpty(reg.TractorPlate),
		"driver_name":      reg.DriverName,
		"driver_document":  reg.DriverDocument,
		"has_helper":       reg.HasHelper,
		"helper_name":      nullIfEmpty(reg.HelperName),
		"helper_document":  nullIfEmpty(reg.HelperDocument),
		"operation_type":   string(reg.OperationType),
		"driver_signature": reg.DriverSignature,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	const q = `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgRegistrationRepo) List(ctx context.Context, filter domain.Filter, page domain.PaginationParams) ([]domain.Registration, int64, error) {
	where, args := buildFilter(filter)

	countQ := `SELECT count(*) FROM registrations` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.List: count: %w", err)
	}

	listQ := `
		SELECT ` + registrationColumns + `
		FROM registrations` + where + `
		ORDER BY arrived_at DESC
		LIMIT @limit OFFSET @offset`
	args["limit"] = page.Limit
	args["offset"] = page.Offset()

	rows, err := r.db.Query(ctx, listQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.List: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.RegistrationRepo.List: scan: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.List: rows: %w", err)
	}

	return regs, total, nil
}

func (r *pgRegistrationRepo) FindOpenByPlate(ctx context.Context, trailerPlate string) (domain.Registration, error) {
	const q = `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE trailer_plate = @trailer_plate AND status = 'at_yard'
		ORDER BY arrived_at ASC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trailer_plate": trailerPlate})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.FindOpenByPlate: %w", err)
	}
	return result, nil
}

// SetDeparture transitions an at-yard registration to departed. The status
// guard in the WHERE clause makes the transition atomic: a concurrent second
// departure matches zero rows instead of overwriting the first.
func (r *pgRegistrationRepo) SetDeparture(ctx context.Context, id uuid.UUID, departedAt time.Time, responsibleSignature string) (domain.Registration, error) {
	const q = `
		UPDATE registrations
		SET departed_at           = @departed_at,
		    responsible_signature = @responsible_signature,
		    status                = 'departed',
		    updated_at            = now()
		WHERE id = @id AND status = 'at_yard'
		RETURNING ` + registrationColumns

	args := pgx.NamedArgs{
		"id":                    id,
		"departed_at":           departedAt,
		"responsible_signature": responsibleSignature,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.SetDeparture: %w", err)
	}
	return result, nil
}

func (r *pgRegistrationRepo) Statistics(ctx context.Context) (domain.Statistics, error) {
	const countsQ = `
		SELECT
			count(*) FILTER (WHERE status = 'at_yard'),
			count(*) FILTER (WHERE status = 'departed'),
			count(*) FILTER (WHERE operation_type = 'unload'),
			count(*) FILTER (WHERE operation_type = 'collect'),
			count(*)
		FROM registrations`

	var stats domain.Statistics
	err := r.db.QueryRow(ctx, countsQ).Scan(
		&stats.AtYard, &stats.Departed, &stats.Unload, &stats.Collect, &stats.Total,
	)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("repo.RegistrationRepo.Statistics: counts: %w", err)
	}

	stats.Carriers, err = r.distinctValues(ctx, "carrier")
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("repo.RegistrationRepo.Statistics: carriers: %w", err)
	}
	stats.Clients, err = r.distinctValues(ctx, "client")
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("repo.RegistrationRepo.Statistics: clients: %w", err)
	}

	return stats, nil
}

// distinctValues returns the sorted distinct values of a column.
// column is always a compile-time constant ("carrier" or "client"), never
// user input, so interpolating it is safe.
func (r *pgRegistrationRepo) distinctValues(ctx context.Context, column string) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT %s FROM registrations ORDER BY %s ASC`, column, column)

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// buildFilter translates a domain.Filter into a WHERE clause and named args.
// An empty filter yields an empty clause, matching every row.
func buildFilter(filter domain.Filter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if filter.Carrier != "" {
		conds = append(conds, `carrier ILIKE '%' || @carrier || '%'`)
		args["carrier"] = filter.Carrier
	}
	if filter.Client != "" {
		conds = append(conds, `client ILIKE '%' || @client || '%'`)
		args["client"] = filter.Client
	}
	if filter.OperationType != "" {
		conds = append(conds, `operation_type = @operation_type`)
		args["operation_type"] = string(filter.OperationType)
	}
	if filter.Status != "" {
		conds = append(conds, `status = @status`)
		args["status"] = string(filter.Status)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// nullIfEmpty maps the empty string to NULL for nullable text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRegistration
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRegistration maps a single database row into a domain.Registration.
// It handles the UUID and nullable column conversions.
func scanRegistration(s scanner) (domain.Registration, error) {
	var (
		reg        domain.Registration
		id         pgtype.UUID
		tractor    pgtype.Text
		helperName pgtype.Text
		helperDoc  pgtype.Text
		departedAt pgtype.Timestamptz
		respSig    pgtype.Text
		opType     string
		status     string
	)

	err := s.Scan(
		&id, &reg.ArrivedAt, &reg.Carrier, &reg.Client, &reg.TrailerPlate, &tractor,
		&reg.DriverName, &reg.DriverDocument, &reg.HasHelper, &helperName, &helperDoc,
		&opType, &reg.DriverSignature, &departedAt, &respSig,
		&status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, domain.ErrNotFound
		}
		return domain.Registration{}, err
	}

	reg.ID = uuid.UUID(id.Bytes)
	reg.TractorPlate = tractor.String
	reg.HelperName = helperName.String
	reg.HelperDocument = helperDoc.String
	reg.OperationType = domain.OperationType(opType)
	reg.ResponsibleSignature = respSig.String
	reg.Status = domain.Status(status)
	if departedAt.Valid {
		d := departedAt.Time
		reg.DepartedAt = &d
	}

	return reg, nil
}
