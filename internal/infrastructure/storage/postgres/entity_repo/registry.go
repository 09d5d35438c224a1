package entity_repo

import (
	"fixpoint/internal/domain/company"
	"fixpoint/internal/domain/issue"
	"fixpoint/internal/domain/location"
	"fixpoint/internal/domain/product"
	"fixpoint/internal/domain/productmodel"
	"fixpoint/internal/domain/registry"
	"fixpoint/internal/domain/serviceop"
	"fixpoint/internal/domain/shipment"
)

// DefaultRegistry assembles the registrations of every entity. Building it at
// startup validates all definitions in one place.
func DefaultRegistry() *registry.Registry {
	reg := registry.New()
	reg.MustRegister(company.Definition())
	reg.MustRegister(location.Definition())
	reg.MustRegister(productmodel.Definition())
	reg.MustRegister(product.Definition())
	reg.MustRegister(issue.Definition())
	reg.MustRegister(shipment.Definition())
	reg.MustRegister(serviceop.Definition())
	return reg
}
