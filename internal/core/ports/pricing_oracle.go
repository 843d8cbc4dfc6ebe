package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"laundry/internal/core/domain/model/order"
)

// ErrEstimationFailed is returned when the oracle produced no usable estimate.
var ErrEstimationFailed = errors.New("price estimation failed")

// Estimation is the oracle's answer for a basket of items.
type Estimation struct {
	TotalPrice       decimal.Decimal
	EstimatedMinutes int
	ConfidenceScore  float64
	Explanation      string
}

// PricingOracle estimates price and turnaround for a set of items. Implementations fail
// closed with ErrEstimationFailed and never return a partial Estimation.
type PricingOracle interface {
	Estimate(ctx context.Context, items []order.Item, isExpress bool) (Estimation, error)
}
