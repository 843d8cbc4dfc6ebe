package services

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
)

// ErrForbidden is returned when the actor may not perform the requested change.
// Messages never name the courier that owns the order.
var ErrForbidden = errors.New("forbidden")

// Transition describes an applied status change.
type Transition struct {
	From order.Status
	To   order.Status
}

// ReleasesPartnerLoad reports whether the change finished the order, which frees one unit
// of the partner's capacity.
func (t Transition) ReleasesPartnerLoad() bool {
	return t.To == order.Completed && t.From != order.Completed
}

// TransitionGuard decides whether an actor may move an order to a new status and applies
// the change to the aggregate.
//
// Rules by role:
//   - ADMIN may jump to any status and replace the courier, but never touches a COMPLETED order
//   - COURIER must follow the lifecycle, may only name itself as courier and may not act on
//     an order owned by another courier; acting on an order without a courier claims it
//   - PARTNER must follow the lifecycle and own the order's partner; it cannot set couriers
//   - CUSTOMER and unknown roles cannot change status
//
// Edges are not tied to roles: a courier or partner allowed to act on an order may take any
// next step, including the one normally done by the other side.
//
// All checks run before the aggregate is mutated, so a rejected request leaves the order as
// it was.
type TransitionGuard struct{}

func NewTransitionGuard() TransitionGuard {
	return TransitionGuard{}
}

// Apply checks and performs the change. actorPartner is the partner record owned by the
// actor, or nil when the actor owns none; it is only consulted for PARTNER actors.
func (g TransitionGuard) Apply(
	actor kernel.Actor,
	o *order.Order,
	actorPartner *partner.Partner,
	target order.Status,
	courierID *kernel.UUID,
	now time.Time,
) (Transition, error) {
	if err := actor.Validate(); err != nil {
		return Transition{}, err
	}
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}
	if err := target.Validate(); err != nil {
		return Transition{}, err
	}

	from := o.Status()

	switch actor.Role() {
	case kernel.RoleAdmin:
		if err := g.applyAdmin(o, target, courierID, now); err != nil {
			return Transition{}, err
		}
	case kernel.RoleCourier:
		if err := g.applyCourier(actor.UserID(), o, target, courierID, now); err != nil {
			return Transition{}, err
		}
	case kernel.RolePartner:
		if err := g.applyPartner(actor.UserID(), o, actorPartner, target, courierID, now); err != nil {
			return Transition{}, err
		}
	default:
		return Transition{}, ErrForbidden
	}

	return Transition{From: from, To: target}, nil
}

func (g TransitionGuard) applyAdmin(o *order.Order, target order.Status, courierID *kernel.UUID, now time.Time) error {
	if err := o.Status().ValidateOverride(target); err != nil {
		return err
	}
	if courierID != nil {
		if err := o.ReassignCourier(*courierID, now); err != nil {
			return err
		}
	}
	return o.OverrideStatus(target, now)
}

func (g TransitionGuard) applyCourier(
	self kernel.UUID,
	o *order.Order,
	target order.Status,
	courierID *kernel.UUID,
	now time.Time,
) error {
	if courierID != nil && !courierID.IsEqual(self) {
		return ErrForbidden
	}
	if o.HasCourier() && !o.IsAssignedTo(self) {
		return ErrForbidden
	}
	if err := o.Status().ValidateTransition(target); err != nil {
		return err
	}
	if err := o.AssignCourier(self, now); err != nil {
		if errors.Is(err, order.ErrCourierAlreadyAssigned) {
			return ErrForbidden
		}
		return err
	}
	return o.ChangeStatus(target, now)
}

func (g TransitionGuard) applyPartner(
	self kernel.UUID,
	o *order.Order,
	actorPartner *partner.Partner,
	target order.Status,
	courierID *kernel.UUID,
	now time.Time,
) error {
	if actorPartner == nil || actorPartner.Validate() != nil {
		return ErrForbidden
	}
	if !actorPartner.IsOwnedBy(self) || !actorPartner.ID().IsEqual(o.PartnerID()) {
		return ErrForbidden
	}
	if courierID != nil {
		return ErrForbidden
	}
	return o.ChangeStatus(target, now)
}
