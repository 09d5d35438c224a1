package entity

import (
	"context"
	"time"

	"fixpoint/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants without database access.
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains the fields shared by every entity: an identifier, audit
// timestamps, and the soft-delete marker. Rows with a non-nil DeletedAt are
// invisible to all reads unless the read explicitly opts into deleted rows.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Audit timestamps
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// DeletedAt marks the row as soft-deleted when set
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// NewBase creates a Base with a generated ID and creation timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity identifier.
func (b *Base) GetID() id.ID {
	return b.ID
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// IsDeleted reports whether the entity is soft-deleted.
func (b *Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// MarkDeleted sets the soft-delete marker.
func (b *Base) MarkDeleted() {
	now := time.Now().UTC()
	b.DeletedAt = &now
}

// Restore clears the soft-delete marker.
func (b *Base) Restore() {
	b.DeletedAt = nil
}
