package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrRouteIsNotConstructed = errors.New("route must be created via order.NewRoute")
)

// CreateOrderCommand asks to price, dispatch and persist a new laundry order for a customer.
//
// Example:
//
//	item, _ := order.NewItem("Kiloan", 3, "kg")
//	route, _ := order.NewRoute("Jl. Kertajaya 10", "Jl. Kertajaya 10", pickup)
//	cmd, err := NewCreateOrderCommand(customerID, []order.Item{item}, false, route)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	items      []order.Item
	isExpress  bool
	route      order.Route

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the customer, the items and the route.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	items []order.Item,
	isExpress bool,
	route order.Route,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		isExpress: isExpress,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setRoute(route),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns a copy of the requested items.
func (c CreateOrderCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c CreateOrderCommand) IsExpress() bool {
	return c.isExpress
}

func (c CreateOrderCommand) Route() order.Route {
	return c.route
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}

	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setRoute(route order.Route) error {
	if route.PickupAddress() == "" {
		return ErrRouteIsNotConstructed
	}

	c.route = route
	return nil
}
