// Package seeder loads development data into a migrated database.
package seeder

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laundry/internal/adapters/out/postgres"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/pkg/errs"
)

const (
	// PartnerUserID owns the seeded partner; tokens minted for it act as that partner.
	PartnerUserID = "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"

	partnerID = "0b9e6c1a-2f3d-4e5b-9c7a-8d1e2f3a4b5c"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{uowFactory: postgres.NewGormUnitOfWorkFactory(db), logger: logger.Named("seeder")}
}

// Partners seeds the verified headquarters partner if its owner has none yet. It reports
// whether a partner was inserted.
func (s *Seeder) Partners(ctx context.Context) (bool, error) {
	ownerID, err := kernel.UUIDFromString(PartnerUserID)
	if err != nil {
		return false, err
	}
	id, err := kernel.UUIDFromString(partnerID)
	if err != nil {
		return false, err
	}
	location, err := kernel.NewGeoPoint(-7.2755, 112.7583)
	if err != nil {
		return false, err
	}

	hq, err := partner.RestorePartner(
		id,
		ownerID,
		"Clean & Fresh Laundry HQ",
		"Jl. Manyar Kertoarjo No. 50, Surabaya",
		location,
		50,
		10,
		4.8,
		true,
	)
	if err != nil {
		return false, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PartnerRepository()
	existing, err := repo.GetByUserID(ctx, ownerID)
	switch {
	case err == nil:
		s.logger.Info("partner already seeded", zap.String("partner_id", existing.ID().String()))
		return false, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return false, err
	}

	if err = repo.Add(ctx, hq); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	s.logger.Info("seeded partner", zap.String("partner_id", hq.ID().String()), zap.String("name", hq.Name()))
	return true, nil
}
