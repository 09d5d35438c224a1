// Package shipment provides the Shipment entity: a tracked transfer of
// hardware to or from a company.
package shipment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Direction distinguishes incoming repairs from outgoing returns.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Status is the delivery state of a shipment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusLost      Status = "lost"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusLost:
		return true
	}
	return false
}

// Shipment is one transfer of hardware between the service and a company.
type Shipment struct {
	entity.Base

	TrackingNumber string          `db:"tracking_number" json:"tracking_number"`
	Carrier        string          `db:"carrier" json:"carrier"`
	Direction      Direction       `db:"direction" json:"direction"`
	Status         Status          `db:"status" json:"status"`
	CompanyID      id.ID           `db:"company_id" json:"company_id"`
	Cost           decimal.Decimal `db:"cost" json:"cost"`
	ShippedAt      *time.Time      `db:"shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time      `db:"delivered_at" json:"delivered_at,omitempty"`

	// Company is projected from the companies table on reads.
	Company CompanyInfo `db:"company" json:"company"`
}

// CompanyInfo is the projected counterparty slice of a shipment row.
type CompanyInfo struct {
	ID    *id.ID  `db:"id" json:"id,omitempty"`
	Name  *string `db:"name" json:"name,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`
}

// New creates a Shipment with required fields, starting pending.
func New(trackingNumber, carrier string, direction Direction, companyID id.ID) *Shipment {
	return &Shipment{
		Base:           entity.NewBase(),
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		Direction:      direction,
		Status:         StatusPending,
		CompanyID:      companyID,
		Cost:           decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (s *Shipment) Validate(ctx context.Context) error {
	if s.TrackingNumber == "" {
		return apperror.NewValidation("tracking_number is required").
			WithDetail("field", "tracking_number")
	}
	if s.Carrier == "" {
		return apperror.NewValidation("carrier is required").
			WithDetail("field", "carrier")
	}
	if !s.Direction.Valid() {
		return apperror.NewValidation("unknown direction").
			WithDetail("field", "direction").
			WithDetail("value", string(s.Direction))
	}
	if !s.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(s.Status))
	}
	if id.IsNil(s.CompanyID) {
		return apperror.NewValidation("company_id is required").
			WithDetail("field", "company_id")
	}
	if s.Cost.IsNegative() {
		return apperror.NewValidation("cost must not be negative").
			WithDetail("field", "cost")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
func Definition() registry.Definition {
	return registry.Definition{
		Name:         "shipment",
		Table:        "shipments",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("tracking_number", "carrier", "direction", "status", "company_id"),
		SortFields:   query.NewFieldSet("status", "shipped_at", "created_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList: {
				{Name: "company", Table: "companies", LocalKey: "company_id",
					Columns: []string{"id", "name"}},
			},
			registry.VariantDetail: {
				{Name: "company", Table: "companies", LocalKey: "company_id",
					Columns: []string{"id", "name", "email", "phone"}},
			},
		},
	}
}
