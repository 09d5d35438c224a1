package entity_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"fixpoint/internal/domain/product"
	"fixpoint/internal/domain/registry"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// Compile-time check that ProductRepo satisfies the product contract.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*postgres.Repo[product.Product]
}

// NewProductRepo creates the product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		Repo: postgres.NewRepo[product.Product](txm, product.Definition()),
	}
}

// FindBySerialNumber retrieves a visible product by its serial number, or nil
// if none exists.
func (r *ProductRepo) FindBySerialNumber(ctx context.Context, serialNumber string) (*product.Product, error) {
	q := r.SelectQuery(registry.VariantDetail).
		Where(squirrel.Eq{"products.serial_number": serialNumber}).
		Where("products.deleted_at IS NULL").
		Limit(1)

	return r.FindOne(ctx, q)
}
