package order

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrCourierAlreadyAssigned is returned when a non-administrative write tries to put a
	// second courier on an order.
	ErrCourierAlreadyAssigned = errors.New("order already has a courier")
)

// Order is a laundry order travelling from a customer through a partner and back. It is the
// aggregate root of the order ledger.
//
// Order follows these invariants:
//   - the partner is fixed at creation and never reassigned
//   - once a courier is set only an administrator can replace it
//   - status is always an enumerated value and, outside administrative overrides, only
//     moves along the lifecycle (see Status)
//   - COMPLETED is terminal: no status or courier write is accepted afterwards
//   - the quote (price and estimated time) is fixed at creation
//
// Example:
//
//	number, _ := order.NewNumber(42)
//	item, _ := order.NewItem("Kiloan", 3, "kg")
//	quote, _ := order.NewQuote(decimal.NewFromInt(30000), 1440)
//	route, _ := order.NewRoute("Jl. Kertajaya 10", "Jl. Kertajaya 10", pickup)
//	o, err := order.NewOrder(kernel.NewUUID(), number, customerID, partnerID,
//	    []order.Item{item}, false, quote, route, time.Now())
type Order struct {
	id         kernel.UUID
	number     Number
	customerID kernel.UUID
	partnerID  kernel.UUID
	courierID  *kernel.UUID
	items      []Item
	isExpress  bool
	quote      Quote
	route      Route
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
	version    int64
	guard      guard.ConstructorGuard
}

// State is the persisted form of an Order, used by RestoreOrder.
type State struct {
	ID         kernel.UUID
	Number     Number
	CustomerID kernel.UUID
	PartnerID  kernel.UUID
	CourierID  *kernel.UUID
	Items      []Item
	IsExpress  bool
	Quote      Quote
	Route      Route
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

// NewOrder creates a PENDING order without a courier.
func NewOrder(
	id kernel.UUID,
	number Number,
	customerID kernel.UUID,
	partnerID kernel.UUID,
	items []Item,
	isExpress bool,
	quote Quote,
	route Route,
	now time.Time,
) (*Order, error) {
	return RestoreOrder(State{
		ID:         id,
		Number:     number,
		CustomerID: customerID,
		PartnerID:  partnerID,
		Items:      items,
		IsExpress:  isExpress,
		Quote:      quote,
		Route:      route,
		Status:     Pending,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	})
}

// RestoreOrder rebuilds an Order from persisted state. All validation errors are reported
// together.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		isExpress: s.IsExpress,
		quote:     s.Quote,
		route:     s.Route,
		createdAt: s.CreatedAt.UTC(),
		updatedAt: s.UpdatedAt.UTC(),
		version:   s.Version,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomerID(s.CustomerID),
		o.setPartnerID(s.PartnerID),
		o.setCourierID(s.CourierID),
		o.setItems(s.Items),
		o.setStatus(s.Status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate fails for a nil or zero-value Order.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) PartnerID() kernel.UUID {
	return o.partnerID
}

// CourierID returns the assigned courier's user id, or nil.
func (o *Order) CourierID() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

// HasCourier reports whether any courier is assigned.
func (o *Order) HasCourier() bool {
	return o.courierID != nil
}

// IsAssignedTo reports whether courierID is the assigned courier.
func (o *Order) IsAssignedTo(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) IsExpress() bool {
	return o.isExpress
}

func (o *Order) Quote() Quote {
	return o.quote
}

func (o *Order) Route() Route {
	return o.route
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the optimistic concurrency token of the loaded state. Repositories write
// Version()+1 guarded by Version().
func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion records a successful guarded write. Repositories call it once the row
// holds Version()+1.
func (o *Order) AdvanceVersion() {
	o.version++
}

// ChangeStatus moves the order one step along the lifecycle. Re-applying the current
// status is a no-op that still succeeds.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	if err := o.status.ValidateTransition(target); err != nil {
		return err
	}
	o.status = target
	o.touch(now)
	return nil
}

// OverrideStatus is the administrative status change: any enumerated status is accepted
// unless the order is completed.
func (o *Order) OverrideStatus(target Status, now time.Time) error {
	if err := o.status.ValidateOverride(target); err != nil {
		return err
	}
	o.status = target
	o.touch(now)
	return nil
}

// AssignCourier sets the courier if none is assigned. Assigning the current courier again
// is accepted; any other courier gets ErrCourierAlreadyAssigned.
func (o *Order) AssignCourier(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return ErrOrderIsCompleted
	}
	if o.courierID != nil {
		if o.courierID.IsEqual(courierID) {
			return nil
		}
		return ErrCourierAlreadyAssigned
	}
	o.courierID = &courierID
	o.touch(now)
	return nil
}

// ReassignCourier replaces the courier unconditionally. Reserved for administrators.
func (o *Order) ReassignCourier(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return ErrOrderIsCompleted
	}
	o.courierID = &courierID
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	if now.IsZero() {
		return
	}
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partner id", err)
	}
	o.partnerID = id
	return nil
}

func (o *Order) setCourierID(id *kernel.UUID) error {
	if id == nil {
		o.courierID = nil
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courier id", err)
	}
	courierID := *id
	o.courierID = &courierID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
