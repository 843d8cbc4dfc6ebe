package commands_test

import (
	"context"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

func (m *MockPartnerRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

func (m *MockPartnerRepository) GetAllAvailable(ctx context.Context) ([]*partner.Partner, error) {
	args := m.Called(ctx)
	partners, _ := args.Get(0).([]*partner.Partner)
	return partners, args.Error(1)
}

func (m *MockPartnerRepository) TryReserve(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Release(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartnerRepository) ReconcileLoad(ctx context.Context) ([]ports.LoadCorrection, error) {
	args := m.Called(ctx)
	corrections, _ := args.Get(0).([]ports.LoadCorrection)
	return corrections, args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByNumberForUpdate(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (order.Number, error) {
	args := m.Called(ctx)
	return args.Get(0).(order.Number), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	return m.Called().Get(0).(ports.PartnerRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockPartnerUoWFactory struct{ mock.Mock }

func (m *MockPartnerUoWFactory) Create() commands.PartnerUoW {
	return m.Called().Get(0).(commands.PartnerUoW)
}

type MockPricingOracle struct{ mock.Mock }

func (m *MockPricingOracle) Estimate(ctx context.Context, items []order.Item, isExpress bool) (ports.Estimation, error) {
	args := m.Called(ctx, items, isExpress)
	return args.Get(0).(ports.Estimation), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, n ports.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) OrderCreated(isExpress bool) {
	m.Called(isExpress)
}

func (m *MockMetrics) DispatchFailed(reason string) {
	m.Called(reason)
}

func (m *MockMetrics) StatusChanged(from, to order.Status) {
	m.Called(from, to)
}

func (m *MockMetrics) NotificationFailed(event string) {
	m.Called(event)
}

// topic matches a notification by topic.
func topic(name string) any {
	return mock.MatchedBy(func(n ports.Notification) bool { return n.Topic == name })
}
