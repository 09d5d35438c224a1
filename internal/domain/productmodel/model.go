// Package productmodel provides the ProductModel entity: the catalog entry a
// tracked product unit is an instance of.
package productmodel

import (
	"context"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// ProductModel is a catalog entry produced by a manufacturer.
type ProductModel struct {
	entity.Base

	Name           string  `db:"name" json:"name"`
	Code           string  `db:"code" json:"code"`
	Category       *string `db:"category" json:"category,omitempty"`
	ManufacturerID id.ID   `db:"manufacturer_id" json:"manufacturer_id"`

	// Manufacturer is projected from the companies table on reads.
	Manufacturer ManufacturerInfo `db:"manufacturer" json:"manufacturer"`
}

// ManufacturerInfo is the projected manufacturer slice of a model row.
// Pointer fields tolerate the NULLs a LEFT JOIN produces.
type ManufacturerInfo struct {
	ID   *id.ID  `db:"id" json:"id,omitempty"`
	Name *string `db:"name" json:"name,omitempty"`
}

// New creates a ProductModel with required fields.
func New(name, code string, manufacturerID id.ID) *ProductModel {
	return &ProductModel{
		Base:           entity.NewBase(),
		Name:           name,
		Code:           code,
		ManufacturerID: manufacturerID,
	}
}

// Validate implements entity.Validatable.
func (m *ProductModel) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if m.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if id.IsNil(m.ManufacturerID) {
		return apperror.NewValidation("manufacturer_id is required").
			WithDetail("field", "manufacturer_id")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
func Definition() registry.Definition {
	manufacturer := registry.Relation{
		Name:     "manufacturer",
		Table:    "companies",
		LocalKey: "manufacturer_id",
		Columns:  []string{"id", "name"},
	}

	return registry.Definition{
		Name:         "product_model",
		Table:        "product_models",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("name", "code", "category", "manufacturer_id"),
		SortFields:   query.NewFieldSet("name", "code", "created_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList:   {manufacturer},
			registry.VariantDetail: {manufacturer},
		},
	}
}
