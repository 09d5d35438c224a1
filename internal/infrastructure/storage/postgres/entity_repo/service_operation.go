package entity_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/serviceop"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// ServiceOperationRepo implements domain.Repository for service operations.
type ServiceOperationRepo struct {
	*postgres.Repo[serviceop.ServiceOperation]
}

// NewServiceOperationRepo creates the service operation repository.
func NewServiceOperationRepo(txm *postgres.TxManager) *ServiceOperationRepo {
	return &ServiceOperationRepo{
		Repo: postgres.NewRepo[serviceop.ServiceOperation](txm, serviceop.Definition()),
	}
}

// TotalCostForIssue sums labor and parts cost over an issue's completed
// operations.
func (r *ServiceOperationRepo) TotalCostForIssue(ctx context.Context, issueID id.ID) (decimal.Decimal, error) {
	q := r.Builder().
		Select("COALESCE(SUM(labor_cost + parts_cost), 0)").
		From("service_operations").
		Where(squirrel.Eq{"issue_id": issueID}).
		Where(squirrel.Eq{"status": string(serviceop.StatusCompleted)})

	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total decimal.Decimal
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum operation costs: %w", err)
	}
	return total, nil
}
