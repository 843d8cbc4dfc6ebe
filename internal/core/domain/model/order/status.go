package order

import (
	"errors"
	"fmt"
	"strings"

	"laundry/internal/pkg/errs"
)

var (
	// ErrOrderIsCompleted is returned for any write to a completed order.
	ErrOrderIsCompleted = errors.New("order is completed")
	// ErrTransitionIsNotAllowed is returned when a status change skips or reverses the lifecycle.
	ErrTransitionIsNotAllowed = errors.New("status transition is not allowed")
)

// Status is the lifecycle state of an order.
//
// Lifecycle:
//
//	PENDING ──> PICKUP_ASSIGNED ──> PICKED_UP ──> READY_FOR_DELIVERY ──> DELIVERING ──> COMPLETED
//
// Every step has exactly one successor. COMPLETED is terminal. Administrators may jump
// to any status, but never out of COMPLETED.
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota
	// Pending orders wait for a courier to pick them up.
	Pending
	// PickupAssigned orders have a courier on the way to the customer.
	PickupAssigned
	// PickedUp orders are on their way to, or at, the partner.
	PickedUp
	// ReadyForDelivery orders are washed and wait for a courier.
	ReadyForDelivery
	// Delivering orders are on their way back to the customer.
	Delivering
	// Completed orders were handed back. Terminal.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "UNKNOWN",
		Pending:          "PENDING",
		PickupAssigned:   "PICKUP_ASSIGNED",
		PickedUp:         "PICKED_UP",
		ReadyForDelivery: "READY_FOR_DELIVERY",
		Delivering:       "DELIVERING",
		Completed:        "COMPLETED",
	}
}

// getSuccessors is the transition table.
func getSuccessors() map[Status]Status {
	return map[Status]Status{
		Pending:          PickupAssigned,
		PickupAssigned:   PickedUp,
		PickedUp:         ReadyForDelivery,
		ReadyForDelivery: Delivering,
		Delivering:       Completed,
	}
}

// ParseStatus converts the wire name (case-insensitive) into a Status. Anything outside
// the enumerated set, including "UNKNOWN", is rejected.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, e.g. "READY_FOR_DELIVERY".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

// IsTerminal reports whether no further writes are accepted.
func (s Status) IsTerminal() bool {
	return s == Completed
}

// Next returns the single successor of s, or false for terminal and invalid statuses.
func (s Status) Next() (Status, bool) {
	next, ok := getSuccessors()[s]
	return next, ok
}

// ValidateTransition checks that moving from s to target follows the lifecycle.
// Re-applying the current status is accepted so that retried requests are idempotent.
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if s.IsTerminal() {
		return ErrOrderIsCompleted
	}
	if s == target {
		return nil
	}
	if next, ok := s.Next(); !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionIsNotAllowed, s, target)
	}
	return nil
}

// ValidateOverride checks an administrative status change: any enumerated target is
// allowed unless the order is already completed.
func (s Status) ValidateOverride(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if s.IsTerminal() {
		return ErrOrderIsCompleted
	}
	return nil
}
