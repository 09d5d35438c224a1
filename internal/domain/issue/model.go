// Package issue provides the Issue entity: a reported defect or service
// request against a tracked product.
package issue

import (
	"context"
	"time"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
	"fixpoint/internal/domain/registry"
)

// Status is the workflow state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// transitions lists the allowed next states per status. Closed is terminal.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusResolved, StatusOpen},
	StatusResolved:   {StatusClosed, StatusInProgress},
	StatusClosed:     nil,
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Priority ranks how urgently an issue needs attention.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Issue is one reported problem on a product, filed by a company.
type Issue struct {
	entity.Base

	// IssueNumber is the human-readable sequential number (ISS-2026-00042),
	// assigned on creation.
	IssueNumber string     `db:"issue_number" json:"issue_number"`
	Status      Status     `db:"status" json:"status"`
	Priority    Priority   `db:"priority" json:"priority"`
	ProductID   id.ID      `db:"product_id" json:"product_id"`
	CompanyID   id.ID      `db:"company_id" json:"company_id"`
	Summary     string     `db:"summary" json:"summary"`
	Description *string    `db:"description" json:"description,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`

	// Projected from related tables on reads.
	Product ProductInfo `db:"product" json:"product"`
	Company CompanyInfo `db:"company" json:"company"`
}

// ProductInfo is the projected product slice of an issue row. The catalog
// model is only populated on detail reads.
type ProductInfo struct {
	ID           *id.ID    `db:"id" json:"id,omitempty"`
	SerialNumber *string   `db:"serial_number" json:"serial_number,omitempty"`
	Status       *string   `db:"status" json:"status,omitempty"`
	Model        ModelInfo `db:"model" json:"model"`
}

// ModelInfo is the projected catalog model nested under the product.
type ModelInfo struct {
	ID   *id.ID  `db:"id" json:"id,omitempty"`
	Name *string `db:"name" json:"name,omitempty"`
}

// CompanyInfo is the projected reporting company slice of an issue row.
type CompanyInfo struct {
	ID    *id.ID  `db:"id" json:"id,omitempty"`
	Name  *string `db:"name" json:"name,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
}

// New creates an Issue with required fields, starting open.
func New(productID, companyID id.ID, summary string, priority Priority) *Issue {
	return &Issue{
		Base:      entity.NewBase(),
		Status:    StatusOpen,
		Priority:  priority,
		ProductID: productID,
		CompanyID: companyID,
		Summary:   summary,
	}
}

// Validate implements entity.Validatable.
func (i *Issue) Validate(ctx context.Context) error {
	if i.Summary == "" {
		return apperror.NewValidation("summary is required").
			WithDetail("field", "summary")
	}
	if !i.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(i.Status))
	}
	if !i.Priority.Valid() {
		return apperror.NewValidation("unknown priority").
			WithDetail("field", "priority").
			WithDetail("value", string(i.Priority))
	}
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product_id is required").
			WithDetail("field", "product_id")
	}
	if id.IsNil(i.CompanyID) {
		return apperror.NewValidation("company_id is required").
			WithDetail("field", "company_id")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
func Definition() registry.Definition {
	return registry.Definition{
		Name:         "issue",
		Table:        "issues",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("issue_number", "status", "priority", "product_id", "company_id"),
		SortFields:   query.NewFieldSet("issue_number", "status", "priority", "created_at", "resolved_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList: {
				{Name: "product", Table: "products", LocalKey: "product_id",
					Columns: []string{"id", "serial_number"}},
				{Name: "company", Table: "companies", LocalKey: "company_id",
					Columns: []string{"id", "name"}},
			},
			registry.VariantDetail: {
				{Name: "product", Table: "products", LocalKey: "product_id",
					Columns: []string{"id", "serial_number", "status"},
					Nested: []registry.Relation{
						{Name: "model", Table: "product_models", LocalKey: "model_id",
							Columns: []string{"id", "name"}},
					}},
				{Name: "company", Table: "companies", LocalKey: "company_id",
					Columns: []string{"id", "name", "email"}},
			},
		},
	}
}
