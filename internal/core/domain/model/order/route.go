package order

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// Route holds where the laundry is collected and where it goes back to.
type Route struct {
	pickupAddress   string
	deliveryAddress string
	pickup          kernel.GeoPoint
}

// NewRoute requires both addresses and a valid pickup coordinate. The pickup coordinate
// is the one the partner matcher measures distance from.
func NewRoute(pickupAddress, deliveryAddress string, pickup kernel.GeoPoint) (Route, error) {
	pickupAddress = strings.TrimSpace(pickupAddress)
	deliveryAddress = strings.TrimSpace(deliveryAddress)

	var problems []error
	if pickupAddress == "" {
		problems = append(problems, errs.NewValueIsRequiredError("pickup address"))
	}
	if deliveryAddress == "" {
		problems = append(problems, errs.NewValueIsRequiredError("delivery address"))
	}
	if err := pickup.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := errors.Join(problems...); err != nil {
		return Route{}, err
	}

	return Route{pickupAddress: pickupAddress, deliveryAddress: deliveryAddress, pickup: pickup}, nil
}

func (r Route) PickupAddress() string {
	return r.pickupAddress
}

func (r Route) DeliveryAddress() string {
	return r.deliveryAddress
}

func (r Route) Pickup() kernel.GeoPoint {
	return r.pickup
}
