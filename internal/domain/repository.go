// Package domain provides the repository contract and shared business logic
// for repair-tracking entities.
package domain

import (
	"context"

	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
)

// ListResult is the outcome of a list read: one page of rows plus the
// pagination envelope describing the full matching set.
type ListResult[T any] struct {
	Data       []T              `json:"data"`
	Pagination query.Pagination `json:"pagination"`
}

// Repository defines the generic CRUD contract every entity repository
// satisfies. Absence is reported as a nil row or a false flag, not as an
// error: "not found" is an expected outcome, store failures are not.
type Repository[T any] interface {
	// FindAll runs a filtered, sorted, paginated read with the entity's
	// list projection. Soft-deleted rows are excluded unless the options
	// say otherwise.
	FindAll(ctx context.Context, opts query.Options) (ListResult[T], error)

	// FindByID retrieves one entity with the detail projection, or nil if
	// it does not exist or is soft-deleted.
	FindByID(ctx context.Context, entityID id.ID) (*T, error)

	// Create inserts the entity and returns the stored row in a single
	// round-trip (INSERT ... RETURNING).
	Create(ctx context.Context, e *T) (*T, error)

	// Update applies a partial column update and returns the updated row,
	// or nil if no visible row matched the identifier.
	Update(ctx context.Context, entityID id.ID, changes map[string]any) (*T, error)

	// Delete soft-deletes (or physically deletes, per the entity's
	// registration) and reports whether a row was affected. Deleting an
	// already-deleted row returns false.
	Delete(ctx context.Context, entityID id.ID) (bool, error)

	// Count returns the number of rows matching the filters, ignoring
	// pagination.
	Count(ctx context.Context, filters map[string]any) (int64, error)

	// Exists reports whether a visible row with the given ID exists.
	Exists(ctx context.Context, entityID id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents a lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook runs at a lifecycle point of a service operation.
type Hook[T any] func(ctx context.Context, e *T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: make(map[HookEvent][]Hook[T])}
}

// On registers a hook for the given event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the given event, stopping on the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, e *T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
