package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks to move an order to a new status, optionally naming the
// courier.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor     kernel.Actor
	number    order.Number
	status    order.Status
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand parses newStatus strictly; anything outside the lifecycle
// names is a ValueIsInvalid error.
func NewUpdateOrderStatusCommand(
	actor kernel.Actor,
	number order.Number,
	newStatus string,
	courierID *kernel.UUID,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setNumber(number),
		cmd.setStatus(newStatus),
		cmd.setCourierID(courierID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateOrderStatusCommand) Number() order.Number {
	return c.number
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// CourierID returns the courier named in the request, or nil.
func (c UpdateOrderStatusCommand) CourierID() *kernel.UUID {
	return c.courierID
}

func (c *UpdateOrderStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *UpdateOrderStatusCommand) setNumber(number order.Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	c.number = number
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(raw string) error {
	status, err := order.ParseStatus(raw)
	if err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *UpdateOrderStatusCommand) setCourierID(courierID *kernel.UUID) error {
	if courierID == nil {
		return nil
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	id := *courierID
	c.courierID = &id
	return nil
}
