package commands

import "laundry/internal/core/domain/model/order"

// Metrics receives dispatch outcomes.
type Metrics interface {
	OrderCreated(isExpress bool)
	DispatchFailed(reason string)
	StatusChanged(from, to order.Status)
	NotificationFailed(event string)
}

// Dispatch failure reasons.
const (
	FailureEstimation = "estimation"
	FailureNoPartner  = "no_partner"
	FailureConflict   = "conflict"
	FailureInternal   = "internal"
)
