package issue

import (
	"context"
	"fmt"
	"time"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/id"
	"fixpoint/internal/core/numerator"
	"fixpoint/internal/core/tx"
	"fixpoint/internal/domain"
)

// NumberConfig is the numbering scheme for issue numbers.
var NumberConfig = numerator.DefaultConfig("ISS")

// Repository extends the generic contract with issue-specific reads.
type Repository interface {
	domain.Repository[Issue]
	CountOpenForProduct(ctx context.Context, productID id.ID) (int64, error)
}

// Service is the issue business service. Status changes go through
// ChangeStatus so the workflow transitions stay enforced; issue numbers are
// assigned from a sequence on creation.
type Service struct {
	*domain.Service[Issue]
	repo    Repository
	numbers numerator.Generator
}

// NewService creates the issue service. A nil numbers generator disables
// automatic issue numbering (callers then set IssueNumber themselves).
func NewService(repo Repository, txManager tx.Manager, auditor domain.Auditor, numbers numerator.Generator) *Service {
	s := &Service{
		Service: domain.NewService(domain.ServiceConfig[Issue]{
			Repo:       repo,
			TxManager:  txManager,
			Auditor:    auditor,
			EntityName: "issue",
		}),
		repo:    repo,
		numbers: numbers,
	}
	s.Hooks().On(domain.BeforeCreate, s.assignNumber)
	return s
}

func (s *Service) assignNumber(ctx context.Context, is *Issue) error {
	if s.numbers == nil || is.IssueNumber != "" {
		return nil
	}
	num, err := s.numbers.NextNumber(ctx, NumberConfig, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign issue number: %w", err)
	}
	is.IssueNumber = num
	return nil
}

// ChangeStatus moves an issue through its workflow. Disallowed transitions
// are rejected as conflicts; resolving stamps resolved_at, reopening clears
// it.
func (s *Service) ChangeStatus(ctx context.Context, issueID id.ID, to Status) (*Issue, error) {
	if !to.Valid() {
		return nil, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(to))
	}

	current, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, apperror.NewConflict(
			fmt.Sprintf("issue cannot move from %s to %s", current.Status, to)).
			WithDetail("from", string(current.Status)).
			WithDetail("to", string(to))
	}

	changes := map[string]any{"status": string(to)}
	switch to {
	case StatusResolved:
		changes["resolved_at"] = time.Now().UTC()
	case StatusOpen, StatusInProgress:
		changes["resolved_at"] = nil
	}

	return s.Update(ctx, issueID, changes)
}

// OpenCountForProduct reports how many unresolved issues a product has.
func (s *Service) OpenCountForProduct(ctx context.Context, productID id.ID) (int64, error) {
	return s.repo.CountOpenForProduct(ctx, productID)
}
