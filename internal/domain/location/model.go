// Package location provides the Location entity: the physical sites
// (workshops, warehouses, customer premises) products are tracked at.
package location

import (
	"context"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Location is a physical site products are tracked at.
type Location struct {
	entity.Base

	Name    string  `db:"name" json:"name"`
	Address *string `db:"address" json:"address,omitempty"`
	City    *string `db:"city" json:"city,omitempty"`
}

// New creates a Location with required fields.
func New(name string) *Location {
	return &Location{
		Base: entity.NewBase(),
		Name: name,
	}
}

// Validate implements entity.Validatable.
func (l *Location) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
func Definition() registry.Definition {
	return registry.Definition{
		Name:         "location",
		Table:        "locations",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("name", "city"),
		SortFields:   query.NewFieldSet("name", "city", "created_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList:   nil,
			registry.VariantDetail: nil,
		},
	}
}
