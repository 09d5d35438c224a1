// Package main provides a CLI tool for seeding the database with demo data.
// Everything goes through the entity services, so validation, hooks, and the
// audit trail behave exactly as they do in production.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"fixpoint/internal/domain"
	"fixpoint/internal/domain/company"
	"fixpoint/internal/domain/issue"
	"fixpoint/internal/domain/location"
	"fixpoint/internal/domain/product"
	"fixpoint/internal/domain/productmodel"
	"fixpoint/internal/domain/serviceop"
	"fixpoint/internal/domain/shipment"
	"fixpoint/internal/infrastructure/storage/postgres"
	"fixpoint/internal/infrastructure/storage/postgres/entity_repo"
	"fixpoint/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	auditor, err := postgres.NewAuditService(txm)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	s := newSeeder(txm, auditor)

	// Deterministic data so reruns against a fresh database are comparable.
	gofakeit.Seed(42)

	if err := s.run(ctx); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}

	log.Info("seeding completed successfully")
}

type seeder struct {
	companySvc   *domain.Service[company.Company]
	locationSvc  *domain.Service[location.Location]
	modelSvc     *domain.Service[productmodel.ProductModel]
	productSvc   *product.Service
	issueSvc     *issue.Service
	shipmentSvc  *domain.Service[shipment.Shipment]
	operationSvc *domain.Service[serviceop.ServiceOperation]
}

func newSeeder(txm *postgres.TxManager, auditor domain.Auditor) *seeder {
	return &seeder{
		companySvc: domain.NewService(domain.ServiceConfig[company.Company]{
			Repo:       entity_repo.NewCompanyRepo(txm),
			TxManager:  txm,
			Auditor:    auditor,
			EntityName: "company",
		}),
		locationSvc: domain.NewService(domain.ServiceConfig[location.Location]{
			Repo:       entity_repo.NewLocationRepo(txm),
			TxManager:  txm,
			Auditor:    auditor,
			EntityName: "location",
		}),
		modelSvc: domain.NewService(domain.ServiceConfig[productmodel.ProductModel]{
			Repo:       entity_repo.NewProductModelRepo(txm),
			TxManager:  txm,
			Auditor:    auditor,
			EntityName: "product_model",
		}),
		productSvc: product.NewService(entity_repo.NewProductRepo(txm), txm, auditor),
		issueSvc: issue.NewService(
			entity_repo.NewIssueRepo(txm), txm, auditor, postgres.NewNumerator(txm)),
		shipmentSvc: domain.NewService(domain.ServiceConfig[shipment.Shipment]{
			Repo:       entity_repo.NewShipmentRepo(txm),
			TxManager:  txm,
			Auditor:    auditor,
			EntityName: "shipment",
		}),
		operationSvc: domain.NewService(domain.ServiceConfig[serviceop.ServiceOperation]{
			Repo:       entity_repo.NewServiceOperationRepo(txm),
			TxManager:  txm,
			Auditor:    auditor,
			EntityName: "service_operation",
		}),
	}
}

func (s *seeder) run(ctx context.Context) error {
	companies, err := s.seedCompanies(ctx, 8)
	if err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}

	locations, err := s.seedLocations(ctx, 5)
	if err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	models, err := s.seedModels(ctx, 10, companies[:3])
	if err != nil {
		return fmt.Errorf("seed models: %w", err)
	}

	products, err := s.seedProducts(ctx, 40, models, companies, locations)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	issues, err := s.seedIssues(ctx, 25, products)
	if err != nil {
		return fmt.Errorf("seed issues: %w", err)
	}

	if err := s.seedShipments(ctx, 15, companies); err != nil {
		return fmt.Errorf("seed shipments: %w", err)
	}

	if err := s.seedOperations(ctx, issues); err != nil {
		return fmt.Errorf("seed operations: %w", err)
	}

	return nil
}

func (s *seeder) seedCompanies(ctx context.Context, n int) ([]*company.Company, error) {
	out := make([]*company.Company, 0, n)
	for i := 0; i < n; i++ {
		c := company.New(gofakeit.Company())
		c.Email = ptr(gofakeit.Email())
		c.Phone = ptr(gofakeit.Phone())
		c.City = ptr(gofakeit.City())
		c.Country = ptr(gofakeit.Country())

		created, err := s.companySvc.Create(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	logger.Info(ctx, "seeded companies", "count", len(out))
	return out, nil
}

func (s *seeder) seedLocations(ctx context.Context, n int) ([]*location.Location, error) {
	out := make([]*location.Location, 0, n)
	for i := 0; i < n; i++ {
		l := location.New(fmt.Sprintf("%s Workshop", gofakeit.City()))
		l.Address = ptr(gofakeit.Street())
		l.City = ptr(gofakeit.City())

		created, err := s.locationSvc.Create(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	logger.Info(ctx, "seeded locations", "count", len(out))
	return out, nil
}

func (s *seeder) seedModels(ctx context.Context, n int, manufacturers []*company.Company) ([]*productmodel.ProductModel, error) {
	out := make([]*productmodel.ProductModel, 0, n)
	for i := 0; i < n; i++ {
		manufacturer := manufacturers[i%len(manufacturers)]
		m := productmodel.New(
			gofakeit.ProductName(),
			fmt.Sprintf("MDL-%04d", i+1),
			manufacturer.ID,
		)
		m.Category = ptr(gofakeit.ProductCategory())

		created, err := s.modelSvc.Create(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	logger.Info(ctx, "seeded product models", "count", len(out))
	return out, nil
}

func (s *seeder) seedProducts(
	ctx context.Context,
	n int,
	models []*productmodel.ProductModel,
	owners []*company.Company,
	locations []*location.Location,
) ([]*product.Product, error) {
	out := make([]*product.Product, 0, n)
	for i := 0; i < n; i++ {
		p := product.New(
			fmt.Sprintf("SN-%06d", i+1),
			models[i%len(models)].ID,
			owners[i%len(owners)].ID,
			locations[i%len(locations)].ID,
		)
		if gofakeit.Bool() {
			warranty := time.Now().AddDate(0, gofakeit.Number(1, 36), 0)
			p.WarrantyUntil = &warranty
		}

		created, err := s.productSvc.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	logger.Info(ctx, "seeded products", "count", len(out))
	return out, nil
}

func (s *seeder) seedIssues(ctx context.Context, n int, products []*product.Product) ([]*issue.Issue, error) {
	priorities := []issue.Priority{
		issue.PriorityLow, issue.PriorityMedium,
		issue.PriorityHigh, issue.PriorityCritical,
	}

	out := make([]*issue.Issue, 0, n)
	for i := 0; i < n; i++ {
		p := products[i%len(products)]
		is := issue.New(p.ID, p.OwnerID, gofakeit.Sentence(6), priorities[gofakeit.Number(0, 3)])
		is.Description = ptr(gofakeit.Paragraph(1, 3, 8, " "))

		created, err := s.issueSvc.Create(ctx, is)
		if err != nil {
			return nil, err
		}

		// Walk a third of the issues through the workflow.
		if i%3 == 0 {
			if created, err = s.issueSvc.ChangeStatus(ctx, created.ID, issue.StatusInProgress); err != nil {
				return nil, err
			}
			if i%6 == 0 {
				if created, err = s.issueSvc.ChangeStatus(ctx, created.ID, issue.StatusResolved); err != nil {
					return nil, err
				}
			}
		}
		out = append(out, created)
	}
	logger.Info(ctx, "seeded issues", "count", len(out))
	return out, nil
}

func (s *seeder) seedShipments(ctx context.Context, n int, companies []*company.Company) error {
	carriers := []string{"DHL", "UPS", "FedEx", "DPD"}
	for i := 0; i < n; i++ {
		direction := shipment.DirectionInbound
		if i%2 == 0 {
			direction = shipment.DirectionOutbound
		}

		sh := shipment.New(
			fmt.Sprintf("TRK-%010d", gofakeit.Number(1, 999999999)),
			carriers[i%len(carriers)],
			direction,
			companies[i%len(companies)].ID,
		)
		sh.Cost = decimal.NewFromFloat(gofakeit.Price(5, 250))

		if _, err := s.shipmentSvc.Create(ctx, sh); err != nil {
			return err
		}
	}
	logger.Info(ctx, "seeded shipments", "count", n)
	return nil
}

func (s *seeder) seedOperations(ctx context.Context, issues []*issue.Issue) error {
	kinds := []serviceop.Kind{
		serviceop.KindDiagnosis, serviceop.KindRepair,
		serviceop.KindReplacement, serviceop.KindQualityCheck,
	}

	count := 0
	for _, is := range issues {
		if is.Status == issue.StatusOpen {
			continue
		}

		for j := 0; j < gofakeit.Number(1, 3); j++ {
			op := serviceop.New(is.ID, kinds[gofakeit.Number(0, 3)])
			op.Technician = ptr(gofakeit.Name())
			op.LaborHours = decimal.NewFromFloat(gofakeit.Float64Range(0.5, 8))
			op.LaborCost = decimal.NewFromFloat(gofakeit.Price(20, 400))
			op.PartsCost = decimal.NewFromFloat(gofakeit.Price(0, 600))
			op.Notes = ptr(gofakeit.Sentence(10))

			if is.Status == issue.StatusResolved {
				op.Status = serviceop.StatusCompleted
				performed := time.Now().Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour)
				op.PerformedAt = &performed
			}

			if _, err := s.operationSvc.Create(ctx, op); err != nil {
				return err
			}
			count++
		}
	}
	logger.Info(ctx, "seeded service operations", "count", count)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
