package entity_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"fixpoint/internal/domain/productmodel"
	"fixpoint/internal/domain/registry"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// ProductModelRepo implements domain.Repository for catalog models.
type ProductModelRepo struct {
	*postgres.Repo[productmodel.ProductModel]
}

// NewProductModelRepo creates the product model repository.
func NewProductModelRepo(txm *postgres.TxManager) *ProductModelRepo {
	return &ProductModelRepo{
		Repo: postgres.NewRepo[productmodel.ProductModel](txm, productmodel.Definition()),
	}
}

// FindByCode retrieves a visible model by its catalog code, or nil if none
// exists.
func (r *ProductModelRepo) FindByCode(ctx context.Context, code string) (*productmodel.ProductModel, error) {
	q := r.SelectQuery(registry.VariantDetail).
		Where(squirrel.Eq{"product_models.code": code}).
		Where("product_models.deleted_at IS NULL").
		Limit(1)

	return r.FindOne(ctx, q)
}
