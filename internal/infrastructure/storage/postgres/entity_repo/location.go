package entity_repo

import (
	"fixpoint/internal/domain/location"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// LocationRepo implements domain.Repository for locations.
type LocationRepo struct {
	*postgres.Repo[location.Location]
}

// NewLocationRepo creates the location repository.
func NewLocationRepo(txm *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		Repo: postgres.NewRepo[location.Location](txm, location.Definition()),
	}
}
