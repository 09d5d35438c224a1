// Package serviceop provides the ServiceOperation entity: one unit of work
// (diagnosis, repair, replacement) performed against an issue.
package serviceop

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

// Kind classifies the work performed.
type Kind string

const (
	KindDiagnosis    Kind = "diagnosis"
	KindRepair       Kind = "repair"
	KindReplacement  Kind = "replacement"
	KindQualityCheck Kind = "quality_check"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDiagnosis, KindRepair, KindReplacement, KindQualityCheck:
		return true
	}
	return false
}

// Status is the progress state of an operation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// ServiceOperation is one line of work on an issue. Operations are owned by
// their issue and are removed outright rather than soft-deleted.
type ServiceOperation struct {
	entity.Base

	IssueID     id.ID           `db:"issue_id" json:"issue_id"`
	Kind        Kind            `db:"kind" json:"kind"`
	Status      Status          `db:"status" json:"status"`
	Technician  *string         `db:"technician" json:"technician,omitempty"`
	LaborHours  decimal.Decimal `db:"labor_hours" json:"labor_hours"`
	LaborCost   decimal.Decimal `db:"labor_cost" json:"labor_cost"`
	PartsCost   decimal.Decimal `db:"parts_cost" json:"parts_cost"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	PerformedAt *time.Time      `db:"performed_at" json:"performed_at,omitempty"`

	// Issue is projected from the issues table on reads.
	Issue IssueInfo `db:"issue" json:"issue"`
}

// IssueInfo is the projected parent-issue slice of an operation row.
type IssueInfo struct {
	ID      *id.ID  `db:"id" json:"id,omitempty"`
	Status  *string `db:"status" json:"status,omitempty"`
	Summary *string `db:"summary" json:"summary,omitempty"`
}

// New creates a ServiceOperation with required fields, starting pending.
func New(issueID id.ID, kind Kind) *ServiceOperation {
	return &ServiceOperation{
		Base:       entity.NewBase(),
		IssueID:    issueID,
		Kind:       kind,
		Status:     StatusPending,
		LaborHours: decimal.Zero,
		LaborCost:  decimal.Zero,
		PartsCost:  decimal.Zero,
	}
}

// TotalCost is labor plus parts.
func (o *ServiceOperation) TotalCost() decimal.Decimal {
	return o.LaborCost.Add(o.PartsCost)
}

// Validate implements entity.Validatable.
func (o *ServiceOperation) Validate(ctx context.Context) error {
	if id.IsNil(o.IssueID) {
		return apperror.NewValidation("issue_id is required").
			WithDetail("field", "issue_id")
	}
	if !o.Kind.Valid() {
		return apperror.NewValidation("unknown kind").
			WithDetail("field", "kind").
			WithDetail("value", string(o.Kind))
	}
	if !o.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}
	if o.LaborHours.IsNegative() || o.LaborCost.IsNegative() || o.PartsCost.IsNegative() {
		return apperror.NewValidation("hours and costs must not be negative")
	}
	return nil
}

// Definition is the entity registration consumed by the generic repository.
// Operations are hard-deleted: they have no life independent of their issue.
func Definition() registry.Definition {
	issue := registry.Relation{
		Name:     "issue",
		Table:    "issues",
		LocalKey: "issue_id",
		Columns:  []string{"id", "status", "summary"},
	}

	return registry.Definition{
		Name:         "service_operation",
		Table:        "service_operations",
		SoftDelete:   false,
		FilterFields: query.NewFieldSet("issue_id", "kind", "status", "technician"),
		SortFields:   query.NewFieldSet("kind", "status", "performed_at", "created_at"),
		Projections: map[registry.Variant][]registry.Relation{
			registry.VariantList:   {issue},
			registry.VariantDetail: {issue},
		},
	}
}
