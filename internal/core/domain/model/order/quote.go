package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"laundry/internal/pkg/errs"
)

// Quote is the price and turnaround agreed at creation time. It never changes afterwards.
type Quote struct {
	totalPrice       decimal.Decimal
	estimatedMinutes int
}

// NewQuote rejects negative prices and durations.
func NewQuote(totalPrice decimal.Decimal, estimatedMinutes int) (Quote, error) {
	var problems []error
	if totalPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("total price", fmt.Errorf("%s is negative", totalPrice)))
	}
	if estimatedMinutes < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("estimated time", fmt.Errorf("%d minutes is negative", estimatedMinutes)))
	}
	if err := errors.Join(problems...); err != nil {
		return Quote{}, err
	}
	return Quote{totalPrice: totalPrice, estimatedMinutes: estimatedMinutes}, nil
}

func (q Quote) TotalPrice() decimal.Decimal {
	return q.totalPrice
}

func (q Quote) EstimatedMinutes() int {
	return q.estimatedMinutes
}
