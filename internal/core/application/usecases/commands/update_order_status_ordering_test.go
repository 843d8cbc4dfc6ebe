package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW {
	return f()
}

// lockingUoW holds the order row lock from GetByNumberForUpdate until commit or rollback.
type lockingUoW struct {
	row      *sync.Mutex
	stored   *order.Order
	partners ports.PartnerRepository
	onCommit func()
	held     bool
}

func (u *lockingUoW) Begin(context.Context) error { return nil }

func (u *lockingUoW) Commit(context.Context) error {
	u.unlock()
	if u.onCommit != nil {
		u.onCommit()
	}
	return nil
}

func (u *lockingUoW) Rollback(context.Context) error {
	u.unlock()
	return nil
}

func (u *lockingUoW) unlock() {
	if u.held {
		u.held = false
		u.row.Unlock()
	}
}

func (u *lockingUoW) OrderRepository() ports.OrderRepository { return lockedOrders{uow: u} }

func (u *lockingUoW) PartnerRepository() ports.PartnerRepository { return u.partners }

type lockedOrders struct {
	ports.OrderRepository
	uow *lockingUoW
}

func (r lockedOrders) GetByNumberForUpdate(context.Context, order.Number) (*order.Order, error) {
	r.uow.row.Lock()
	r.uow.held = true
	return r.uow.stored, nil
}

func (r lockedOrders) Update(_ context.Context, o *order.Order) error {
	o.AdvanceVersion()
	return nil
}

// slowCustomerChannel records what the customer channel receives; the first delivery is
// held back like a slow broker round trip.
type slowCustomerChannel struct {
	topic string
	delay time.Duration

	mu       sync.Mutex
	started  bool
	statuses []string
	versions []int64
}

func (c *slowCustomerChannel) Publish(_ context.Context, n ports.Notification) error {
	if n.Topic != c.topic {
		return nil
	}

	c.mu.Lock()
	first := !c.started
	c.started = true
	c.mu.Unlock()
	if first {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = append(c.statuses, n.Payload.Order.Status)
	c.versions = append(c.versions, n.Version)
	return nil
}

func TestUpdateOrderStatusCommandHandler_NotifiesInCommitOrder(t *testing.T) {
	owner := verifiedPartner(t, "HQ", -7.2755, 112.7583, 50, 10, 4.8)
	stored := storedOrder(t, owner.ID(), order.Pending, nil)
	courier := actor(t, kernel.NewUUID(), kernel.RoleCourier)

	partners := &MockPartnerRepository{}
	partners.On("Get", mock.Anything, owner.ID()).Return(owner, nil)
	metrics := &MockMetrics{}
	metrics.On("StatusChanged", mock.Anything, mock.Anything)
	channel := &slowCustomerChannel{topic: ports.CustomerTopic(stored.CustomerID()), delay: 150 * time.Millisecond}

	var (
		row           sync.Mutex
		firstCommit   = make(chan struct{})
		signalOnce    sync.Once
		signalFirstTx = func() { signalOnce.Do(func() { close(firstCommit) }) }
	)
	factory := uowFactoryFunc(func() commands.UoW {
		return &lockingUoW{row: &row, stored: stored, partners: partners, onCommit: signalFirstTx}
	})
	handler := commands.NewUpdateOrderStatusCommandHandler(factory, channel, metrics, zap.NewNop())

	assign, err := commands.NewUpdateOrderStatusCommand(courier, stored.Number(), "PICKUP_ASSIGNED", nil)
	require.NoError(t, err)
	pickUp, err := commands.NewUpdateOrderStatusCommand(courier, stored.Number(), "PICKED_UP", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	handleErrs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, handleErrs[0] = handler.Handle(context.Background(), assign)
	}()

	select {
	case <-firstCommit:
	case <-time.After(2 * time.Second):
		t.Fatal("first change never committed")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, handleErrs[1] = handler.Handle(context.Background(), pickUp)
	}()
	wg.Wait()

	require.NoError(t, handleErrs[0])
	require.NoError(t, handleErrs[1])
	assert.Equal(t, []string{"PICKUP_ASSIGNED", "PICKED_UP"}, channel.statuses)
	assert.Equal(t, []int64{2, 3}, channel.versions)
	assert.Equal(t, order.PickedUp, stored.Status())
}
