package domain

import (
	"context"
	"fmt"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
	"fixpoint/internal/core/tx"
	"fixpoint/internal/domain/query"
	"fixpoint/pkg/logger"
)

// AuditAction is the kind of change recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// Auditor records entity changes. Implemented by the postgres audit service;
// a nil Auditor disables auditing.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action AuditAction, changes map[string]any) error
}

// Identifiable exposes an entity's identifier. entity.Base satisfies it.
type Identifiable interface {
	GetID() id.ID
}

// Service provides shared business logic on top of a Repository: validation,
// lifecycle hooks, transactions, audit, and mapping of absent rows to
// not-found errors. Entity services embed it and register hooks for their
// specific rules.
type Service[T any] struct {
	repo       Repository[T]
	txManager  tx.Manager
	auditor    Auditor
	hooks      *HookRegistry[T]
	entityName string
}

// ServiceConfig configures a Service.
type ServiceConfig[T any] struct {
	Repo       Repository[T]
	TxManager  tx.Manager
	Auditor    Auditor // optional
	EntityName string
}

// NewService creates a Service for one entity type.
func NewService[T any](cfg ServiceConfig[T]) *Service[T] {
	return &Service[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		auditor:    cfg.Auditor,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// List runs a filtered, sorted, paginated read.
func (s *Service[T]) List(ctx context.Context, opts query.Options) (ListResult[T], error) {
	return s.repo.FindAll(ctx, opts)
}

// Get retrieves one entity, mapping an absent row to a not-found error.
func (s *Service[T]) Get(ctx context.Context, entityID id.ID) (*T, error) {
	e, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperror.NewNotFound(s.entityName, entityID.String())
	}
	return e, nil
}

// Count returns the number of visible rows matching the filters.
func (s *Service[T]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	return s.repo.Count(ctx, filters)
}

// Create validates the entity, runs before-create hooks, and inserts it in a
// transaction together with its audit record.
func (s *Service[T]) Create(ctx context.Context, e *T) (*T, error) {
	if v, ok := any(e).(entity.Validatable); ok {
		if err := v.Validate(ctx); err != nil {
			return nil, s.normalizeValidationErr(err)
		}
	}

	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return nil, err
	}

	var created *T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		created = row
		return s.audit(ctx, row, AuditActionCreate, nil)
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, AfterCreate, created); err != nil {
		// Entity is already committed; surface the hook failure in logs only.
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	return created, nil
}

// Update applies a partial update in a transaction, mapping an absent row to a
// not-found error and recording the change set.
func (s *Service[T]) Update(ctx context.Context, entityID id.ID, changes map[string]any) (*T, error) {
	var updated *T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.Update(ctx, entityID, changes)
		if err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		if row == nil {
			return apperror.NewNotFound(s.entityName, entityID.String())
		}
		updated = row
		return s.audit(ctx, row, AuditActionUpdate, changes)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the entity (soft or hard per its registration). Deleting an
// absent or already-deleted entity yields a not-found error at this level.
func (s *Service[T]) Delete(ctx context.Context, entityID id.ID) error {
	e, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return err
	}
	if e == nil {
		return apperror.NewNotFound(s.entityName, entityID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		affected, err := s.repo.Delete(ctx, entityID)
		if err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		if !affected {
			return apperror.NewNotFound(s.entityName, entityID.String())
		}
		return s.audit(ctx, e, AuditActionDelete, nil)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, e); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

func (s *Service[T]) audit(ctx context.Context, e *T, action AuditAction, changes map[string]any) error {
	if s.auditor == nil {
		return nil
	}
	ident, ok := any(e).(Identifiable)
	if !ok {
		return nil
	}
	return s.auditor.LogChange(ctx, s.entityName, ident.GetID(), action, changes)
}

func (s *Service[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}
