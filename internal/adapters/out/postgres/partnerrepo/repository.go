package partnerrepo

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements ports.PartnerRepository using GORM.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new partner.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a partner by ID.
func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByUserID retrieves the partner owned by a user.
func (r *GormPartnerRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*partner.Partner, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner of user", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable returns verified partners below capacity.
func (r *GormPartnerRepository) GetAllAvailable(ctx context.Context) ([]*partner.Partner, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).
		Where("is_verified AND current_load < capacity").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.Partner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}

	return partners, nil
}

// TryReserve increments current_load only while the partner is verified and below capacity.
// The condition is evaluated by the UPDATE itself, so concurrent reservations can never push a
// partner past its capacity.
func (r *GormPartnerRepository) TryReserve(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ? AND is_verified AND current_load < capacity", id.Bytes()).
		UpdateColumn("current_load", gorm.Expr("current_load + 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Release decrements current_load, never below zero.
func (r *GormPartnerRepository) Release(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn("current_load", gorm.Expr("GREATEST(current_load - 1, 0)"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", id.String())
	}

	return nil
}

// ReconcileLoad sets every partner's load to the number of its open orders, clamped to
// capacity.
//
// All partner rows are locked in id order before orders are counted. Under READ COMMITTED
// the counting statement then sees every dispatch or completion that held one of those rows,
// so a reservation that was still in flight is never written back down.
func (r *GormPartnerRepository) ReconcileLoad(ctx context.Context) ([]ports.LoadCorrection, error) {
	var corrections []ports.LoadCorrection
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []uuid.UUID
		if err := tx.Model(&PartnerDTO{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("id").
			Pluck("id", &locked).Error; err != nil {
			return err
		}

		var err error
		corrections, err = reconcileLocked(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return corrections, nil
}

func reconcileLocked(tx *gorm.DB) ([]ports.LoadCorrection, error) {
	rows, err := tx.Raw(`
		WITH open_orders AS (
			SELECT partner_id, COUNT(*) AS open_count
			FROM orders
			WHERE status <> ?
			GROUP BY partner_id
		), target AS (
			SELECT
				p.id,
				p.current_load AS previous,
				LEAST(COALESCE(o.open_count, 0), p.capacity) AS expected
			FROM partners p
			LEFT JOIN open_orders o ON o.partner_id = p.id
		)
		UPDATE partners p
		SET current_load = t.expected
		FROM target t
		WHERE p.id = t.id AND p.current_load <> t.expected
		RETURNING p.id, t.previous, t.expected
	`, order.Completed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	corrections := make([]ports.LoadCorrection, 0)
	for rows.Next() {
		var (
			id                 uuid.UUID
			previous, expected int
		)
		if err = rows.Scan(&id, &previous, &expected); err != nil {
			return nil, err
		}

		partnerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		corrections = append(corrections, ports.LoadCorrection{
			PartnerID: partnerID,
			Previous:  previous,
			Current:   expected,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return corrections, nil
}
