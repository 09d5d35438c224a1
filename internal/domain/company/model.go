// Package company provides the Company entity: customers, suppliers, and
// manufacturers products and issues are linked to.
package company

import (
	"context"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Company represents an organization in the repair-tracking system.
type Company struct {
	entity.Base

	Name    string  `db:"name" json:"name"`
	Email   *string `db:"email" json:"email,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	City    *string `db:"city" json:"city,omitempty"`
	Country *string `db:"country" json:"country,omitempty"`
}

// New creates a Company with required fields.
func New(name string) *Company {
	return &Company{
		Base: entity.NewBase(),
		Name: name,
	}
}

// Validate implements entity.Validatable.
func (c *Company) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
func Definition() registry.Definition {
	return registry.Definition{
		Name:         "company",
		Table:        "companies",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("name", "city", "country"),
		SortFields:   query.NewFieldSet("name", "city", "created_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList:   nil,
			registry.VariantDetail: nil,
		},
	}
}
