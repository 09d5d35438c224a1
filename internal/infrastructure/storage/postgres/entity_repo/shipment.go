package entity_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"fixpoint/internal/domain/registry"
	"fixpoint/internal/domain/shipment"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// ShipmentRepo implements domain.Repository for shipments.
type ShipmentRepo struct {
	*postgres.Repo[shipment.Shipment]
}

// NewShipmentRepo creates the shipment repository.
func NewShipmentRepo(txm *postgres.TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		Repo: postgres.NewRepo[shipment.Shipment](txm, shipment.Definition()),
	}
}

// FindByTrackingNumber retrieves a visible shipment by carrier tracking
// number, or nil if none exists.
func (r *ShipmentRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	q := r.SelectQuery(registry.VariantDetail).
		Where(squirrel.Eq{"shipments.tracking_number": trackingNumber}).
		Where("shipments.deleted_at IS NULL").
		Limit(1)

	return r.FindOne(ctx, q)
}
