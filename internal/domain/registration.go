// Package domain contains the core data types for the yard register
// application. This package has zero knowledge of HTTP or SQL and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Registration.
// A registration is AtYard from creation until its departure is recorded,
// after which it is Departed and never changes again.
type Status string

const (
	StatusAtYard   Status = "at_yard"
	StatusDeparted Status = "departed"
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusAtYard || s == StatusDeparted
}

// OperationType is the reason a truck is at the facility.
type OperationType string

const (
	OperationUnload  OperationType = "unload"
	OperationCollect OperationType = "collect"
)

// Valid reports whether o is one of the two known operation types.
func (o OperationType) Valid() bool {
	return o == OperationUnload || o == OperationCollect
}

// Registration represents one truck visit from arrival through optional
// departure. DepartedAt is nil while the truck is still at the yard;
// when it is set, ResponsibleSignature is set alongside it and Status is
// StatusDeparted.
type Registration struct {
	ID                   uuid.UUID     `json:"id"`
	ArrivedAt            time.Time     `json:"arrived_at"`
	Carrier              string        `json:"carrier"`
	Client               string        `json:"client"`
	TrailerPlate         string        `json:"trailer_plate"`
	TractorPlate         string        `json:"tractor_plate,omitempty"`
	DriverName           string        `json:"driver_name"`
	DriverDocument       string        `json:"driver_document"`
	HasHelper            bool          `json:"has_helper"`
	HelperName           string        `json:"helper_name,omitempty"`
	HelperDocument       string        `json:"helper_document,omitempty"`
	OperationType        OperationType `json:"operation_type"`
	DriverSignature      string        `json:"driver_signature"`
	DepartedAt           *time.Time    `json:"departed_at,omitempty"`
	ResponsibleSignature string        `json:"responsible_signature,omitempty"`
	Status               Status        `json:"status"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// Draft carries the caller-supplied fields for a new registration before
// validation. It is a separate type from Registration so unvalidated input
// can never be mistaken for a persisted record.
type Draft struct {
	ArrivedAt       time.Time
	Carrier         string
	Client          string
	TrailerPlate    string
	TractorPlate    string
	DriverName      string
	DriverDocument  string
	HasHelper       bool
	HelperName      string
	HelperDocument  string
	OperationType   OperationType
	DriverSignature string
}

// DuplicateWarning is the advisory payload returned when a registration is
// created while another registration with the same trailer plate is still
// at the yard. The creation itself succeeds; this only informs the caller.
type DuplicateWarning struct {
	Message      string          `json:"message"`
	Registration DuplicateRecord `json:"registration"`
}

// DuplicateRecord identifies the conflicting open registration.
type DuplicateRecord struct {
	ID         uuid.UUID `json:"id"`
	DriverName string    `json:"driver_name"`
	Carrier    string    `json:"carrier"`
	ArrivedAt  time.Time `json:"arrived_at"`
}

// Filter holds the optional list filters. Zero values mean "no filter";
// set fields are combined with logical AND.
// Carrier and Client are case-insensitive substring matches.
type Filter struct {
	Carrier       string
	Client        string
	OperationType OperationType
	Status        Status
}

// Statistics is the unfiltered full-table aggregate.
// Carriers and Clients are the distinct values, sorted ascending.
type Statistics struct {
	AtYard   int64    `json:"at_yard"`
	Departed int64    `json:"departed"`
	Unload   int64    `json:"unload"`
	Collect  int64    `json:"collect"`
	Total    int64    `json:"total"`
	Carriers []string `json:"carriers"`
	Clients  []string `json:"clients"`
}
