// Package product provides the Product entity: a serialized unit tracked
// through ownership, location, and repair history.
package product

import (
	"context"
	"time"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Status is the lifecycle state of a tracked unit.
type Status string

const (
	StatusInService Status = "in_service"
	StatusInRepair  Status = "in_repair"
	StatusRetired   Status = "retired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInService, StatusInRepair, StatusRetired:
		return true
	}
	return false
}

// Product is one serialized unit of a catalog model.
type Product struct {
	entity.Base

	SerialNumber  string     `db:"serial_number" json:"serial_number"`
	Status        Status     `db:"status" json:"status"`
	ModelID       id.ID      `db:"model_id" json:"model_id"`
	OwnerID       id.ID      `db:"owner_id" json:"owner_id"`
	LocationID    id.ID      `db:"location_id" json:"location_id"`
	WarrantyUntil *time.Time `db:"warranty_until" json:"warranty_until,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`

	// Projected from related tables on reads.
	Model    ModelInfo    `db:"model" json:"model"`
	Owner    CompanyInfo  `db:"owner" json:"owner"`
	Location LocationInfo `db:"location" json:"location"`
}

// ModelInfo is the projected catalog-model slice of a product row. The
// manufacturer is only populated on detail reads.
type ModelInfo struct {
	ID           *id.ID           `db:"id" json:"id,omitempty"`
	Name         *string          `db:"name" json:"name,omitempty"`
	Code         *string          `db:"code" json:"code,omitempty"`
	Manufacturer ManufacturerInfo `db:"manufacturer" json:"manufacturer"`
}

// ManufacturerInfo is the projected manufacturer nested under the model.
type ManufacturerInfo struct {
	ID   *id.ID  `db:"id" json:"id,omitempty"`
	Name *string `db:"name" json:"name,omitempty"`
}

// CompanyInfo is the projected owning company slice of a product row.
type CompanyInfo struct {
	ID    *id.ID  `db:"id" json:"id,omitempty"`
	Name  *string `db:"name" json:"name,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`
}

// LocationInfo is the projected location slice of a product row.
type LocationInfo struct {
	ID      *id.ID  `db:"id" json:"id,omitempty"`
	Name    *string `db:"name" json:"name,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a Product with required fields.
func New(serialNumber string, modelID, ownerID, locationID id.ID) *Product {
	return &Product{
		Base:         entity.NewBase(),
		SerialNumber: serialNumber,
		Status:       StatusInService,
		ModelID:      modelID,
		OwnerID:      ownerID,
		LocationID:   locationID,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.SerialNumber == "" {
		return apperror.NewValidation("serial_number is required").
			WithDetail("field", "serial_number")
	}
	if !p.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(p.Status))
	}
	if id.IsNil(p.ModelID) {
		return apperror.NewValidation("model_id is required").
			WithDetail("field", "model_id")
	}
	if id.IsNil(p.OwnerID) {
		return apperror.NewValidation("owner_id is required").
			WithDetail("field", "owner_id")
	}
	if id.IsNil(p.LocationID) {
		return apperror.NewValidation("location_id is required").
			WithDetail("field", "location_id")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
// List reads project a shallow name for each relation; detail reads widen the
// columns and pull the manufacturer through the model.
func Definition() registry.Definition {
	return registry.Definition{
		Name:         "product",
		Table:        "products",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("serial_number", "status", "model_id", "owner_id", "location_id"),
		SortFields:   query.NewFieldSet("serial_number", "status", "created_at", "updated_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList: {
				{Name: "model", Table: "product_models", LocalKey: "model_id",
					Columns: []string{"id", "name"}},
				{Name: "owner", Table: "companies", LocalKey: "owner_id",
					Columns: []string{"id", "name"}},
				{Name: "location", Table: "locations", LocalKey: "location_id",
					Columns: []string{"id", "name"}},
			},
			registry.VariantDetail: {
				{Name: "model", Table: "product_models", LocalKey: "model_id",
					Columns: []string{"id", "name", "code"},
					Nested: []registry.Relation{
						{Name: "manufacturer", Table: "companies", LocalKey: "manufacturer_id",
							Columns: []string{"id", "name"}},
					}},
				{Name: "owner", Table: "companies", LocalKey: "owner_id",
					Columns: []string{"id", "name", "email", "phone"}},
				{Name: "location", Table: "locations", LocalKey: "location_id",
					Columns: []string{"id", "name", "address"}},
			},
		},
	}
}
