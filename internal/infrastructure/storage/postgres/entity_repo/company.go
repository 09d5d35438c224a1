// Package entity_repo provides the concrete Postgres repositories, one per
// registered entity, built on the generic postgres.Repo.
package entity_repo

import (
	"fixpoint/internal/domain/company"
	"fixpoint/internal/infrastructure/storage/postgres"
)

// CompanyRepo implements domain.Repository for companies.
type CompanyRepo struct {
	*postgres.Repo[company.Company]
}

// NewCompanyRepo creates the company repository.
func NewCompanyRepo(txm *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		Repo: postgres.NewRepo[company.Company](txm, company.Definition()),
	}
}
