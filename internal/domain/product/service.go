package product

import (
	"context"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/tx"
	"fixpoint/internal/domain"
)

// Repository extends the generic contract with product-specific finders.
type Repository interface {
	domain.Repository[Product]
	FindBySerialNumber(ctx context.Context, serialNumber string) (*Product, error)
}

// Service is the product business service. Serial numbers are unique among
// visible products; the check runs as a before-create hook so it applies to
// every creation path.
type Service struct {
	*domain.Service[Product]
	repo Repository
}

// NewService creates the product service.
func NewService(repo Repository, txManager tx.Manager, auditor domain.Auditor) *Service {
	s := &Service{
		Service: domain.NewService(domain.ServiceConfig[Product]{
			Repo:       repo,
			TxManager:  txManager,
			Auditor:    auditor,
			EntityName: "product",
		}),
		repo: repo,
	}
	s.Hooks().On(domain.BeforeCreate, s.ensureSerialFree)
	return s
}

// GetBySerialNumber retrieves a product by its serial number, mapping an
// absent row to a not-found error.
func (s *Service) GetBySerialNumber(ctx context.Context, serialNumber string) (*Product, error) {
	p, err := s.repo.FindBySerialNumber(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("product", serialNumber)
	}
	return p, nil
}

func (s *Service) ensureSerialFree(ctx context.Context, p *Product) error {
	existing, err := s.repo.FindBySerialNumber(ctx, p.SerialNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewConflict("serial number already registered").
			WithDetail("serial_number", p.SerialNumber)
	}
	return nil
}
