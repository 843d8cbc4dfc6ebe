package orderrepo

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	sequenceName      = "orders"
	uniqueViolationPG = "23505"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.Join(ports.ErrDuplicateOrderNumber, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable columns guarded by the loaded version and bumps the version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"courier_id": dto.CourierID,
			"status":     dto.Status,
			"updated_at": dto.UpdatedAt,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return errs.NewVersionIsInvalidError("order " + aggregate.Number().String())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByNumber retrieves an order by its number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	return r.getByNumber(ctx, r.db.WithContext(ctx), number)
}

// GetByNumberForUpdate retrieves an order and holds a row lock on it until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *GormOrderRepository) GetByNumberForUpdate(ctx context.Context, number order.Number) (*order.Order, error) {
	return r.getByNumber(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), number)
}

func (r *GormOrderRepository) getByNumber(_ context.Context, db *gorm.DB, number order.Number) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "number = ?", number.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// NextNumber increments the sequence row and returns the new value. The row stays locked
// until the surrounding transaction ends, so numbers are handed out strictly in order.
func (r *GormOrderRepository) NextNumber(ctx context.Context) (order.Number, error) {
	var seq int64
	if err := r.db.WithContext(ctx).
		Raw("UPDATE order_sequences SET value = value + 1 WHERE name = ? RETURNING value", sequenceName).
		Scan(&seq).Error; err != nil {
		return order.Number{}, err
	}

	if seq == 0 {
		return order.Number{}, errs.NewObjectNotFoundError("order sequence", sequenceName)
	}

	return order.NewNumber(seq)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationPG
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
