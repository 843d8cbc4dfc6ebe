// Package queries contains read operations for retrieving system state.
// Queries bypass the aggregates and return read models shaped for the API.
package queries

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the orders visible to an actor.
//
// Visibility by role:
//   - CUSTOMER sees its own orders
//   - PARTNER sees the orders of the partner it owns, or nothing without a partner record
//   - COURIER sees its own orders plus every PENDING or READY_FOR_DELIVERY order
//   - ADMIN and any other role see everything
//
// Example:
//
//	query, err := NewListOrdersQuery(actor)
//	if err != nil {
//	    return err
//	}
//	views, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	actor kernel.Actor

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor kernel.Actor) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() kernel.Actor {
	return q.actor
}

// OrderView is the list read model of an order, with its partner's name.
type OrderView struct {
	ID               kernel.UUID
	Number           string
	CustomerID       kernel.UUID
	PartnerID        kernel.UUID
	PartnerName      string
	CourierID        *kernel.UUID
	Items            []ItemView
	IsExpress        bool
	TotalPrice       decimal.Decimal
	EstimatedMinutes int
	PickupAddress    string
	DeliveryAddress  string
	PickupLat        float64
	PickupLng        float64
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ItemView struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
	Unit     string  `json:"unit"`
}
