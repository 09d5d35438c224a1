package entity_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"fixpoint/internal/core/id"
	"fixpoint/internal/domain/issue"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// Compile-time check that IssueRepo satisfies the issue contract.
var _ issue.Repository = (*IssueRepo)(nil)

// IssueRepo implements issue.Repository.
type IssueRepo struct {
	*postgres.Repo[issue.Issue]
}

// NewIssueRepo creates the issue repository.
func NewIssueRepo(txm *postgres.TxManager) *IssueRepo {
	return &IssueRepo{
		Repo: postgres.NewRepo[issue.Issue](txm, issue.Definition()),
	}
}

// CountOpenForProduct counts a product's issues that are neither resolved nor
// closed.
func (r *IssueRepo) CountOpenForProduct(ctx context.Context, productID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From("issues").
		Where(squirrel.Eq{"issues.product_id": productID}).
		Where(squirrel.Eq{"issues.status": []string{
			string(issue.StatusOpen),
			string(issue.StatusInProgress),
		}}).
		Where("issues.deleted_at IS NULL")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open issues: %w", err)
	}
	return count, nil
}
