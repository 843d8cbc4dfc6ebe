package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type guardFixture struct {
	guard    services.TransitionGuard
	owner    *partner.Partner
	order    *order.Order
	customer kernel.Actor
	admin    kernel.Actor
	courier  kernel.Actor
	rival    kernel.Actor
	partner  kernel.Actor
}

func actor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newGuardFixture(t *testing.T) guardFixture {
	t.Helper()

	partnerActor := actor(t, kernel.RolePartner)
	owner, err := partner.RestorePartner(kernel.NewUUID(), partnerActor.UserID(), "HQ", "",
		point(t, -7.2755, 112.7583), 50, 10, 4.8, true)
	require.NoError(t, err)

	customer := actor(t, kernel.RoleCustomer)
	item, _ := order.NewItem("Kiloan", 3, "kg")
	quote, _ := order.NewQuote(decimal.NewFromInt(30000), 1440)
	route, _ := order.NewRoute("Jl. Kertajaya 10", "Jl. Kertajaya 10", point(t, -7.28, 112.76))
	number, _ := order.NewNumber(1)
	o, err := order.NewOrder(kernel.NewUUID(), number, customer.UserID(), owner.ID(),
		[]order.Item{item}, false, quote, route, now)
	require.NoError(t, err)

	return guardFixture{
		guard:    services.NewTransitionGuard(),
		owner:    owner,
		order:    o,
		customer: customer,
		admin:    actor(t, kernel.RoleAdmin),
		courier:  actor(t, kernel.RoleCourier),
		rival:    actor(t, kernel.RoleCourier),
		partner:  partnerActor,
	}
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}

func TestTransitionGuard_Courier(t *testing.T) {
	t.Run("should claim a pending order", func(t *testing.T) {
		f := newGuardFixture(t)

		tr, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, nil, now)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, tr.From)
		assert.Equal(t, order.PickupAssigned, tr.To)
		assert.True(t, f.order.IsAssignedTo(f.courier.UserID()))
	})

	t.Run("should accept naming itself as courier", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, ptr(f.courier.UserID()), now)

		require.NoError(t, err)
		assert.True(t, f.order.IsAssignedTo(f.courier.UserID()))
	})

	t.Run("should forbid assigning someone else", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, ptr(f.rival.UserID()), now)

		require.ErrorIs(t, err, services.ErrForbidden)
		assert.False(t, f.order.HasCourier())
		assert.Equal(t, order.Pending, f.order.Status())
	})

	t.Run("should forbid a rival courier and keep the owner", func(t *testing.T) {
		f := newGuardFixture(t)
		_, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, nil, now)
		require.NoError(t, err)

		_, err = f.guard.Apply(f.rival, f.order, nil, order.PickedUp, nil, now)

		require.ErrorIs(t, err, services.ErrForbidden)
		assert.NotContains(t, err.Error(), f.courier.UserID().String())
		assert.True(t, f.order.IsAssignedTo(f.courier.UserID()))
		assert.Equal(t, order.PickupAssigned, f.order.Status())
	})

	t.Run("should let the owner repeat and continue", func(t *testing.T) {
		f := newGuardFixture(t)
		_, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, nil, now)
		require.NoError(t, err)

		_, err = f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, nil, now)
		require.NoError(t, err)
		_, err = f.guard.Apply(f.courier, f.order, nil, order.PickedUp, nil, now)
		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, f.order.Status())
	})

	t.Run("should let the assigned courier take the partner's step", func(t *testing.T) {
		f := newGuardFixture(t)
		require.NoError(t, f.order.AssignCourier(f.courier.UserID(), now))
		require.NoError(t, f.order.OverrideStatus(order.PickedUp, now))

		_, err := f.guard.Apply(f.courier, f.order, nil, order.ReadyForDelivery, nil, now)

		require.NoError(t, err)
		assert.Equal(t, order.ReadyForDelivery, f.order.Status())
	})

	t.Run("should reject skipping steps", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.courier, f.order, nil, order.Completed, nil, now)

		require.ErrorIs(t, err, order.ErrTransitionIsNotAllowed)
		assert.False(t, f.order.HasCourier())
	})
}

func TestTransitionGuard_Partner(t *testing.T) {
	t.Run("should let the owning partner mark the laundry ready", func(t *testing.T) {
		f := newGuardFixture(t)
		require.NoError(t, f.order.OverrideStatus(order.PickedUp, now))

		_, err := f.guard.Apply(f.partner, f.order, f.owner, order.ReadyForDelivery, nil, now)

		require.NoError(t, err)
		assert.Equal(t, order.ReadyForDelivery, f.order.Status())
	})

	t.Run("should let the owning partner take courier steps without claiming", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.partner, f.order, f.owner, order.PickupAssigned, nil, now)
		require.NoError(t, err)
		assert.False(t, f.order.HasCourier())

		require.NoError(t, f.order.OverrideStatus(order.Delivering, now))
		tr, err := f.guard.Apply(f.partner, f.order, f.owner, order.Completed, nil, now)
		require.NoError(t, err)
		assert.True(t, tr.ReleasesPartnerLoad())
	})

	t.Run("should forbid partners that do not own the order", func(t *testing.T) {
		f := newGuardFixture(t)
		other := actor(t, kernel.RolePartner)
		otherShop, err := partner.RestorePartner(kernel.NewUUID(), other.UserID(), "Other", "",
			point(t, -7.3, 112.7), 10, 0, 4, true)
		require.NoError(t, err)

		_, err = f.guard.Apply(other, f.order, otherShop, order.PickupAssigned, nil, now)
		require.ErrorIs(t, err, services.ErrForbidden)

		_, err = f.guard.Apply(other, f.order, nil, order.PickupAssigned, nil, now)
		require.ErrorIs(t, err, services.ErrForbidden)

		_, err = f.guard.Apply(other, f.order, f.owner, order.PickupAssigned, nil, now)
		require.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("should forbid partners assigning couriers", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.partner, f.order, f.owner, order.PickupAssigned, ptr(f.courier.UserID()), now)

		require.ErrorIs(t, err, services.ErrForbidden)
	})
}

func TestTransitionGuard_Customer(t *testing.T) {
	f := newGuardFixture(t)

	_, err := f.guard.Apply(f.customer, f.order, nil, order.PickupAssigned, nil, now)

	require.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, order.Pending, f.order.Status())
}

func TestTransitionGuard_Admin(t *testing.T) {
	t.Run("should jump and reassign", func(t *testing.T) {
		f := newGuardFixture(t)
		_, err := f.guard.Apply(f.courier, f.order, nil, order.PickupAssigned, nil, now)
		require.NoError(t, err)

		tr, err := f.guard.Apply(f.admin, f.order, nil, order.Completed, ptr(f.rival.UserID()), now)

		require.NoError(t, err)
		assert.True(t, tr.ReleasesPartnerLoad())
		assert.True(t, f.order.IsAssignedTo(f.rival.UserID()))
	})

	t.Run("should keep completed orders terminal for everyone", func(t *testing.T) {
		f := newGuardFixture(t)
		require.NoError(t, f.order.OverrideStatus(order.Completed, now))

		_, err := f.guard.Apply(f.admin, f.order, nil, order.Pending, ptr(f.rival.UserID()), now)

		require.ErrorIs(t, err, order.ErrOrderIsCompleted)
		assert.False(t, f.order.HasCourier())
	})

	t.Run("should reject unknown targets", func(t *testing.T) {
		f := newGuardFixture(t)

		_, err := f.guard.Apply(f.admin, f.order, nil, order.Unknown, nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTransition_ReleasesPartnerLoad(t *testing.T) {
	assert.True(t, services.Transition{From: order.Delivering, To: order.Completed}.ReleasesPartnerLoad())
	assert.False(t, services.Transition{From: order.PickedUp, To: order.ReadyForDelivery}.ReleasesPartnerLoad())
}
