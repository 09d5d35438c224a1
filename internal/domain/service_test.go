package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/query"
)

type stubEntity struct {
	ID   id.ID
	Name string
}

func (e *stubEntity) GetID() id.ID { return e.ID }

func (e *stubEntity) Validate(ctx context.Context) error {
	if e.Name == "" {
		return apperror.NewValidation("name is required")
	}
	return nil
}

type stubRepo struct {
	byID     map[id.ID]*stubEntity
	created  []*stubEntity
	updated  *stubEntity
	affected bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[id.ID]*stubEntity)}
}

func (r *stubRepo) FindAll(ctx context.Context, opts query.Options) (ListResult[stubEntity], error) {
	return ListResult[stubEntity]{}, nil
}

func (r *stubRepo) FindByID(ctx context.Context, entityID id.ID) (*stubEntity, error) {
	return r.byID[entityID], nil
}

func (r *stubRepo) Create(ctx context.Context, e *stubEntity) (*stubEntity, error) {
	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	r.created = append(r.created, e)
	r.byID[e.ID] = e
	return e, nil
}

func (r *stubRepo) Update(ctx context.Context, entityID id.ID, changes map[string]any) (*stubEntity, error) {
	return r.updated, nil
}

func (r *stubRepo) Delete(ctx context.Context, entityID id.ID) (bool, error) {
	return r.affected, nil
}

func (r *stubRepo) Count(ctx context.Context, filters map[string]any) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubRepo) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := r.byID[entityID]
	return ok, nil
}

type stubTxManager struct {
	calls int
}

func (m *stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type auditCall struct {
	entityType string
	entityID   id.ID
	action     AuditAction
	changes    map[string]any
}

type stubAuditor struct {
	calls []auditCall
}

func (a *stubAuditor) LogChange(ctx context.Context, entityType string, entityID id.ID, action AuditAction, changes map[string]any) error {
	a.calls = append(a.calls, auditCall{entityType, entityID, action, changes})
	return nil
}

func newTestService(repo *stubRepo) (*Service[stubEntity], *stubTxManager, *stubAuditor) {
	txm := &stubTxManager{}
	auditor := &stubAuditor{}
	svc := NewService(ServiceConfig[stubEntity]{
		Repo:       repo,
		TxManager:  txm,
		Auditor:    auditor,
		EntityName: "gadget",
	})
	return svc, txm, auditor
}

func TestServiceGet(t *testing.T) {
	repo := newStubRepo()
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	e := &stubEntity{ID: id.New(), Name: "present"}
	repo.byID[e.ID] = e

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = svc.Get(ctx, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestServiceCreate(t *testing.T) {
	t.Run("validation failure stops before the store", func(t *testing.T) {
		repo := newStubRepo()
		svc, txm, auditor := newTestService(repo)

		_, err := svc.Create(context.Background(), &stubEntity{})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
		assert.Empty(t, repo.created)
		assert.Zero(t, txm.calls)
		assert.Empty(t, auditor.calls)
	})

	t.Run("success runs hooks and audits in one transaction", func(t *testing.T) {
		repo := newStubRepo()
		svc, txm, auditor := newTestService(repo)

		var events []HookEvent
		svc.Hooks().On(BeforeCreate, func(ctx context.Context, e *stubEntity) error {
			events = append(events, BeforeCreate)
			return nil
		})
		svc.Hooks().On(AfterCreate, func(ctx context.Context, e *stubEntity) error {
			events = append(events, AfterCreate)
			return nil
		})

		created, err := svc.Create(context.Background(), &stubEntity{Name: "new"})
		require.NoError(t, err)
		assert.False(t, id.IsNil(created.ID))
		assert.Equal(t, []HookEvent{BeforeCreate, AfterCreate}, events)
		assert.Equal(t, 1, txm.calls)

		require.Len(t, auditor.calls, 1)
		assert.Equal(t, "gadget", auditor.calls[0].entityType)
		assert.Equal(t, created.ID, auditor.calls[0].entityID)
		assert.Equal(t, AuditActionCreate, auditor.calls[0].action)
	})

	t.Run("before-create hook failure aborts", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, _ := newTestService(repo)

		svc.Hooks().On(BeforeCreate, func(ctx context.Context, e *stubEntity) error {
			return apperror.NewConflict("taken")
		})

		_, err := svc.Create(context.Background(), &stubEntity{Name: "dup"})
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
		assert.Empty(t, repo.created)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Run("absent row maps to not found", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, _ := newTestService(repo)

		_, err := svc.Update(context.Background(), id.New(), map[string]any{"name": "x"})
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("success audits the change set", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, auditor := newTestService(repo)

		repo.updated = &stubEntity{ID: id.New(), Name: "renamed"}
		changes := map[string]any{"name": "renamed"}

		got, err := svc.Update(context.Background(), repo.updated.ID, changes)
		require.NoError(t, err)
		assert.Equal(t, repo.updated, got)

		require.Len(t, auditor.calls, 1)
		assert.Equal(t, AuditActionUpdate, auditor.calls[0].action)
		assert.Equal(t, changes, auditor.calls[0].changes)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("absent entity maps to not found", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, _ := newTestService(repo)

		err := svc.Delete(context.Background(), id.New())
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("success runs hooks and audits", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, auditor := newTestService(repo)

		e := &stubEntity{ID: id.New(), Name: "doomed"}
		repo.byID[e.ID] = e
		repo.affected = true

		var hooked bool
		svc.Hooks().On(BeforeDelete, func(ctx context.Context, got *stubEntity) error {
			hooked = true
			assert.Equal(t, e, got)
			return nil
		})

		require.NoError(t, svc.Delete(context.Background(), e.ID))
		assert.True(t, hooked)

		require.Len(t, auditor.calls, 1)
		assert.Equal(t, AuditActionDelete, auditor.calls[0].action)
	})

	t.Run("race to an already-deleted row maps to not found", func(t *testing.T) {
		repo := newStubRepo()
		svc, _, _ := newTestService(repo)

		e := &stubEntity{ID: id.New(), Name: "gone"}
		repo.byID[e.ID] = e
		repo.affected = false

		err := svc.Delete(context.Background(), e.ID)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}
