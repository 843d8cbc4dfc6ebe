package ports

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/order"
)

// ErrDuplicateOrderNumber is returned when an order number is already taken.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A duplicate number fails with ErrDuplicateOrderNumber.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate guarded by its version. A concurrent write makes it fail with
	// a VersionIsInvalid error and leaves the row untouched.
	Update(ctx context.Context, aggregate *order.Order) error

	// GetByNumber retrieves an order by its human-readable number.
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)

	// GetByNumberForUpdate retrieves an order and locks its row until the transaction ends.
	GetByNumberForUpdate(ctx context.Context, number order.Number) (*order.Order, error)

	// NextNumber draws the next value of the order sequence. Values are unique and strictly
	// increasing even across concurrent transactions.
	NextNumber(ctx context.Context) (order.Number, error)
}
