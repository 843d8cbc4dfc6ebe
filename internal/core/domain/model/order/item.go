package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"laundry/internal/pkg/errs"
)

// ErrItemsAreRequired is returned for an order without line items.
var ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

// Item is one line of a laundry order, e.g. {"Kiloan", 3, "kg"} or {"Cuci Sepatu", 2, "pasang"}.
// Items are immutable value objects.
type Item struct {
	name     string
	quantity float64
	unit     string
}

// NewItem validates a line item. Quantity must be positive and finite; name and unit are
// required.
func NewItem(name string, quantity float64, unit string) (Item, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)

	var problems []error
	if name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("item name"))
	}
	if unit == "" {
		problems = append(problems, errs.NewValueIsRequiredError("item unit"))
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%v is not greater than 0", quantity)))
	}
	if err := errors.Join(problems...); err != nil {
		return Item{}, err
	}

	return Item{name: name, quantity: quantity, unit: unit}, nil
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Quantity() float64 {
	return i.quantity
}

func (i Item) Unit() string {
	return i.unit
}

// String renders the item for prompts and logs, e.g. "Kiloan 3 kg".
func (i Item) String() string {
	return fmt.Sprintf("%s %v %s", i.name, i.quantity, i.unit)
}
