// Package ports defines the contracts between the dispatch core and its infrastructure:
// repositories, the unit of work, the pricing oracle and the notifier.
package ports

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"
)

// LoadCorrection records a partner whose stored load drifted from its open orders.
type LoadCorrection struct {
	PartnerID kernel.UUID
	Previous  int
	Current   int
}

// PartnerRepository defines the persistence contract for partner aggregates.
type PartnerRepository interface {
	// Add persists a new partner.
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Get retrieves a partner by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetByUserID retrieves the partner owned by userID. Returns an ObjectNotFound error when the
	// user owns none.
	GetByUserID(ctx context.Context, userID kernel.UUID) (*partner.Partner, error)

	// GetAllAvailable returns a snapshot of verified partners with current load below capacity.
	// The snapshot can be stale by the time it is used; TryReserve is the authoritative check.
	GetAllAvailable(ctx context.Context) ([]*partner.Partner, error)

	// TryReserve atomically increments the partner's load if it is verified and still below
	// capacity. It reports false, without error, when the reservation lost.
	TryReserve(ctx context.Context, id kernel.UUID) (bool, error)

	// Release atomically decrements the partner's load, never below zero.
	Release(ctx context.Context, id kernel.UUID) error

	// ReconcileLoad recomputes every partner's load from its open orders, clamped to capacity,
	// and returns the partners that changed.
	ReconcileLoad(ctx context.Context) ([]LoadCorrection, error)
}
