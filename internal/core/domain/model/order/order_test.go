package order_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

var created = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func kiloan(t *testing.T) order.Item {
	t.Helper()
	item, err := order.NewItem("Kiloan", 3, "kg")
	require.NoError(t, err)
	return item
}

func quote(t *testing.T) order.Quote {
	t.Helper()
	q, err := order.NewQuote(decimal.NewFromInt(30000), 1440)
	require.NoError(t, err)
	return q
}

func route(t *testing.T) order.Route {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(-7.2800, 112.7600)
	require.NoError(t, err)
	r, err := order.NewRoute("Jl. Kertajaya 10", "Jl. Dharmahusada 2", pickup)
	require.NoError(t, err)
	return r
}

func newPending(t *testing.T) *order.Order {
	t.Helper()
	number, err := order.NewNumber(1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{kiloan(t)}, false, quote(t), route(t), created)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order without courier", func(t *testing.T) {
		o := newPending(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.CourierID())
		assert.False(t, o.HasCourier())
		assert.Equal(t, "ORD-0001", o.Number().String())
		assert.True(t, decimal.NewFromInt(30000).Equal(o.Quote().TotalPrice()))
		assert.Equal(t, 1440, o.Quote().EstimatedMinutes())
		assert.Equal(t, created, o.CreatedAt())
		assert.Equal(t, created, o.UpdatedAt())
		assert.EqualValues(t, 1, o.Version())
	})

	t.Run("should report every missing part", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, order.Number{}, kernel.UUID{}, kernel.UUID{},
			nil, false, quote(t), route(t), created)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order number")
		assert.Contains(t, err.Error(), "customer id")
		assert.Contains(t, err.Error(), "partner id")
		assert.ErrorIs(t, err, order.ErrItemsAreRequired)
	})

	t.Run("should not share the items slice with the caller", func(t *testing.T) {
		items := []order.Item{kiloan(t)}
		number, _ := order.NewNumber(2)
		o, err := order.NewOrder(kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(),
			items, true, quote(t), route(t), created)
		require.NoError(t, err)

		items[0], _ = order.NewItem("Cuci Sepatu", 1, "pasang")
		assert.Equal(t, "Kiloan", o.Items()[0].Name())
	})
}

func TestRestoreOrder(t *testing.T) {
	courier := kernel.NewUUID()
	number, _ := order.NewNumber(7)

	o, err := order.RestoreOrder(order.State{
		ID:         kernel.NewUUID(),
		Number:     number,
		CustomerID: kernel.NewUUID(),
		PartnerID:  kernel.NewUUID(),
		CourierID:  &courier,
		Items:      []order.Item{kiloan(t)},
		Quote:      quote(t),
		Route:      route(t),
		Status:     order.PickedUp,
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
		Version:    4,
	})

	require.NoError(t, err)
	assert.True(t, o.IsAssignedTo(courier))
	assert.Equal(t, order.PickedUp, o.Status())
	assert.EqualValues(t, 4, o.Version())

	o.AdvanceVersion()
	assert.EqualValues(t, 5, o.Version())

	_, err = order.RestoreOrder(order.State{Status: order.Unknown})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should walk the whole lifecycle", func(t *testing.T) {
		o := newPending(t)
		now := created

		for _, next := range lifecycle[1:] {
			now = now.Add(time.Minute)
			require.NoError(t, o.ChangeStatus(next, now))
			assert.Equal(t, next, o.Status())
			assert.Equal(t, now, o.UpdatedAt())
		}
	})

	t.Run("should leave the order untouched on a skipped step", func(t *testing.T) {
		o := newPending(t)

		err := o.ChangeStatus(order.Delivering, created.Add(time.Minute))

		require.ErrorIs(t, err, order.ErrTransitionIsNotAllowed)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, created, o.UpdatedAt())
	})
}

func TestOrder_OverrideStatus(t *testing.T) {
	o := newPending(t)

	require.NoError(t, o.OverrideStatus(order.Delivering, created))
	require.NoError(t, o.OverrideStatus(order.Completed, created))
	assert.ErrorIs(t, o.OverrideStatus(order.Pending, created), order.ErrOrderIsCompleted)
	assert.Equal(t, order.Completed, o.Status())
}

func TestOrder_AssignCourier(t *testing.T) {
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	t.Run("should claim an unowned order once", func(t *testing.T) {
		o := newPending(t)

		require.NoError(t, o.AssignCourier(first, created))
		require.NoError(t, o.AssignCourier(first, created))
		assert.ErrorIs(t, o.AssignCourier(second, created), order.ErrCourierAlreadyAssigned)
		assert.True(t, o.IsAssignedTo(first))
	})

	t.Run("should let administrators replace the courier", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.AssignCourier(first, created))

		require.NoError(t, o.ReassignCourier(second, created))
		assert.True(t, o.IsAssignedTo(second))
	})

	t.Run("should refuse courier writes on completed orders", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.OverrideStatus(order.Completed, created))

		assert.ErrorIs(t, o.AssignCourier(first, created), order.ErrOrderIsCompleted)
		assert.ErrorIs(t, o.ReassignCourier(first, created), order.ErrOrderIsCompleted)
	})

	t.Run("should hand out copies of the courier id", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.AssignCourier(first, created))

		id := o.CourierID()
		*id = second
		assert.True(t, o.IsAssignedTo(first))
	})
}

func TestNumber(t *testing.T) {
	n, err := order.NewNumber(42)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0042", n.String())

	big, _ := order.NewNumber(12345)
	assert.Equal(t, "ORD-12345", big.String())

	parsed, err := order.ParseNumber("ORD-0042")
	require.NoError(t, err)
	assert.Equal(t, n, parsed)

	for _, raw := range []string{"0042", "ORD-42", "ORD-", "ORD-00x1", "ORD-0000"} {
		_, err := order.ParseNumber(raw)
		assert.Error(t, err, raw)
	}

	_, err = order.NewNumber(0)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestValueObjects(t *testing.T) {
	t.Run("item", func(t *testing.T) {
		_, err := order.NewItem(" ", 0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "item name")
		assert.Contains(t, err.Error(), "item unit")
		assert.Contains(t, err.Error(), "item quantity")

		item, err := order.NewItem("Kiloan", 2.5, "kg")
		require.NoError(t, err)
		assert.Equal(t, "Kiloan 2.5 kg", item.String())
	})

	t.Run("quote", func(t *testing.T) {
		_, err := order.NewQuote(decimal.NewFromInt(-1), -5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "total price")
		assert.Contains(t, err.Error(), "estimated time")

		free, err := order.NewQuote(decimal.Zero, 0)
		require.NoError(t, err)
		assert.True(t, free.TotalPrice().IsZero())
	})

	t.Run("route", func(t *testing.T) {
		_, err := order.NewRoute("", " ", kernel.GeoPoint{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pickup address")
		assert.Contains(t, err.Error(), "delivery address")
		assert.Contains(t, err.Error(), "geo point must be created")
	})
}
