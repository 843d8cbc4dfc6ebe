package commands_test

import (
	"testing"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func kiloan(t *testing.T) order.Item {
	t.Helper()
	item, err := order.NewItem("Kiloan", 3, "kg")
	require.NoError(t, err)
	return item
}

func pickupRoute(t *testing.T) order.Route {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(-7.2756, 112.7584)
	require.NoError(t, err)
	route, err := order.NewRoute("Jl. Kertajaya 10", "Jl. Kertajaya 10", pickup)
	require.NoError(t, err)
	return route
}

func verifiedPartner(t *testing.T, name string, lat, lng float64, capacity, load int, rating float64) *partner.Partner {
	t.Helper()
	location, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	p, err := partner.RestorePartner(
		kernel.NewUUID(), kernel.NewUUID(), name, "Surabaya", location, capacity, load, rating, true,
	)
	require.NoError(t, err)
	return p
}

func number(t *testing.T, seq int64) order.Number {
	t.Helper()
	n, err := order.NewNumber(seq)
	require.NoError(t, err)
	return n
}

func storedOrder(t *testing.T, partnerID kernel.UUID, status order.Status, courierID *kernel.UUID) *order.Order {
	t.Helper()
	quote, err := order.NewQuote(decimal.NewFromInt(21000), 1440)
	require.NoError(t, err)
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	o, err := order.RestoreOrder(order.State{
		ID:         kernel.NewUUID(),
		Number:     number(t, 42),
		CustomerID: kernel.NewUUID(),
		PartnerID:  partnerID,
		CourierID:  courierID,
		Items:      []order.Item{kiloan(t)},
		Quote:      quote,
		Route:      pickupRoute(t),
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
		Version:    1,
	})
	require.NoError(t, err)
	return o
}

func actor(t *testing.T, userID kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(userID, role)
	require.NoError(t, err)
	return a
}
