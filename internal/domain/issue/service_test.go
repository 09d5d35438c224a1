package issue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/id"
	"fixpoint/internal/core/numerator"
	"fixpoint/internal/domain"
	"fixpoint/internal/domain/query"
)

type stubRepo struct {
	byID        map[id.ID]*Issue
	lastChanges map[string]any
	openCount   int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[id.ID]*Issue)}
}

func (r *stubRepo) FindAll(ctx context.Context, opts query.Options) (domain.ListResult[Issue], error) {
	return domain.ListResult[Issue]{}, nil
}

func (r *stubRepo) FindByID(ctx context.Context, entityID id.ID) (*Issue, error) {
	return r.byID[entityID], nil
}

func (r *stubRepo) Create(ctx context.Context, e *Issue) (*Issue, error) {
	r.byID[e.ID] = e
	return e, nil
}

func (r *stubRepo) Update(ctx context.Context, entityID id.ID, changes map[string]any) (*Issue, error) {
	is, ok := r.byID[entityID]
	if !ok {
		return nil, nil
	}
	r.lastChanges = changes
	if s, ok := changes["status"].(string); ok {
		is.Status = Status(s)
	}
	return is, nil
}

func (r *stubRepo) Delete(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := r.byID[entityID]
	delete(r.byID, entityID)
	return ok, nil
}

func (r *stubRepo) Count(ctx context.Context, filters map[string]any) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubRepo) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := r.byID[entityID]
	return ok, nil
}

func (r *stubRepo) CountOpenForProduct(ctx context.Context, productID id.ID) (int64, error) {
	return r.openCount, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *stubRepo) *Service {
	return NewService(repo, passthroughTxManager{}, nil, nil)
}

type stubNumbers struct {
	n int64
}

func (g *stubNumbers) NextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	g.n++
	return cfg.Format(period, g.n), nil
}

func seedIssue(repo *stubRepo, status Status) *Issue {
	is := New(id.New(), id.New(), "does not power on", PriorityMedium)
	is.Status = status
	repo.byID[is.ID] = is
	return is
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusOpen)
		svc := newTestService(repo)

		got, err := svc.ChangeStatus(ctx, is.ID, StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, got.Status)
		assert.Contains(t, repo.lastChanges, "resolved_at")
		assert.Nil(t, repo.lastChanges["resolved_at"])
	})

	t.Run("resolving stamps resolved_at", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusInProgress)
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, is.ID, StatusResolved)
		require.NoError(t, err)
		assert.NotNil(t, repo.lastChanges["resolved_at"])
	})

	t.Run("closing does not touch resolved_at", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusResolved)
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, is.ID, StatusClosed)
		require.NoError(t, err)
		assert.NotContains(t, repo.lastChanges, "resolved_at")
	})

	t.Run("disallowed transition is a conflict", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusOpen)
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, is.ID, StatusResolved)
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
		assert.Nil(t, repo.lastChanges)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusClosed)
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, is.ID, StatusOpen)
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
	})

	t.Run("unknown target status is a validation error", func(t *testing.T) {
		repo := newStubRepo()
		is := seedIssue(repo, StatusOpen)
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, is.ID, "paused")
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("absent issue maps to not found", func(t *testing.T) {
		repo := newStubRepo()
		svc := newTestService(repo)

		_, err := svc.ChangeStatus(ctx, id.New(), StatusInProgress)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestCreateAssignsIssueNumber(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := NewService(repo, passthroughTxManager{}, nil, &stubNumbers{})

	first, err := svc.Create(ctx, New(id.New(), id.New(), "no picture", PriorityLow))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ISS-%d-00001", time.Now().UTC().Year()), first.IssueNumber)

	second, err := svc.Create(ctx, New(id.New(), id.New(), "no sound", PriorityLow))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ISS-%d-00002", time.Now().UTC().Year()), second.IssueNumber)

	t.Run("a preset number is kept", func(t *testing.T) {
		is := New(id.New(), id.New(), "imported", PriorityLow)
		is.IssueNumber = "ISS-LEGACY-7"
		created, err := svc.Create(ctx, is)
		require.NoError(t, err)
		assert.Equal(t, "ISS-LEGACY-7", created.IssueNumber)
	})

	t.Run("without a generator no number is assigned", func(t *testing.T) {
		plain := newTestService(newStubRepo())
		created, err := plain.Create(ctx, New(id.New(), id.New(), "unnumbered", PriorityLow))
		require.NoError(t, err)
		assert.Empty(t, created.IssueNumber)
	})
}

func TestOpenCountForProduct(t *testing.T) {
	repo := newStubRepo()
	repo.openCount = 3
	svc := newTestService(repo)

	n, err := svc.OpenCountForProduct(context.Background(), id.New())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
