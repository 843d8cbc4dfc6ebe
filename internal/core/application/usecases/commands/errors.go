package commands

import (
	"errors"

	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
)

var (
	// ErrEstimationFailed is returned when the pricing oracle gave no usable estimate.
	ErrEstimationFailed = ports.ErrEstimationFailed
	// ErrNoPartnerAvailable is returned when no verified partner has spare capacity.
	ErrNoPartnerAvailable = errors.New("no partner available")
	// ErrOrderNotFound is returned when the order number does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrForbidden is returned when the actor may not perform the change.
	ErrForbidden = services.ErrForbidden
)
