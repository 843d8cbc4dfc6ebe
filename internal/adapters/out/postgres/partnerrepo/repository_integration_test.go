package partnerrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/partnerrepo"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type PartnerRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *partnerrepo.GormPartnerRepository
	orders     *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *PartnerRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *PartnerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = partnerrepo.NewGormPartnerRepository(suite.database.DB, suite.tracker)
	suite.orders = orderrepo.NewGormOrderRepository(suite.database.DB, suite.tracker)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	p := suite.addPartner("Clean & Fresh Laundry HQ", 50, 10, true)

	stored, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsEqual(p))
	suite.Equal("Clean & Fresh Laundry HQ", stored.Name())
	suite.Equal(p.UserID(), stored.UserID())
	suite.Equal(50, stored.Capacity())
	suite.Equal(10, stored.CurrentLoad())
	suite.InDelta(4.8, stored.Rating(), 1e-9)
	suite.InDelta(-7.2755, stored.Location().Lat(), 1e-9)
	suite.True(stored.IsVerified())

	byOwner, err := suite.repository.GetByUserID(ctx, p.UserID())
	suite.Require().NoError(err)
	suite.True(byOwner.IsEqual(p))

	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", p.ID(), p)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	_, err = suite.repository.GetByUserID(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestGetAllAvailable_FiltersUnverifiedAndFull() {
	ctx := context.Background()
	open := suite.addPartner("Open", 5, 4, true)
	suite.addPartner("Full", 5, 5, true)
	suite.addPartner("Unverified", 5, 0, false)

	available, err := suite.repository.GetAllAvailable(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(available, 1)
	suite.True(available[0].IsEqual(open))
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestTryReserve_StopsAtCapacity() {
	ctx := context.Background()
	p := suite.addPartner("Tiny", 2, 1, true)

	first, err := suite.repository.TryReserve(ctx, p.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.TryReserve(ctx, p.ID())
	suite.Require().NoError(err)

	suite.True(first)
	suite.False(second)
	suite.Equal(2, suite.load(p.ID()))
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestTryReserve_RefusesUnverified() {
	p := suite.addPartner("Pending review", 5, 0, false)

	reserved, err := suite.repository.TryReserve(context.Background(), p.ID())

	suite.Require().NoError(err)
	suite.False(reserved)
	suite.Equal(0, suite.load(p.ID()))
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestTryReserve_ConcurrentReservationsNeverOverbook() {
	ctx := context.Background()
	p := suite.addPartner("Busy", 3, 0, true)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := suite.repository.TryReserve(ctx, p.ID())
			suite.NoError(err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	suite.Equal(3, granted)
	suite.Equal(3, suite.load(p.ID()))
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestRelease_FloorsAtZero() {
	ctx := context.Background()
	p := suite.addPartner("Idle", 3, 1, true)

	suite.Require().NoError(suite.repository.Release(ctx, p.ID()))
	suite.Require().NoError(suite.repository.Release(ctx, p.ID()))

	suite.Equal(0, suite.load(p.ID()))
	suite.ErrorIs(suite.repository.Release(ctx, kernel.NewUUID()), errs.ErrObjectNotFound)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestReconcileLoad() {
	ctx := context.Background()
	drifted := suite.addPartner("Drifted", 10, 7, true)
	clamped := suite.addPartner("Clamped", 1, 0, true)
	exact := suite.addPartner("Exact", 10, 1, true)

	suite.addOrder(drifted.ID(), order.Pending)
	suite.addOrder(drifted.ID(), order.Completed)
	suite.addOrder(clamped.ID(), order.PickedUp)
	suite.addOrder(clamped.ID(), order.Delivering)
	suite.addOrder(exact.ID(), order.ReadyForDelivery)

	corrections, err := suite.repository.ReconcileLoad(ctx)

	suite.Require().NoError(err)
	suite.Len(corrections, 2)
	suite.Equal(1, suite.load(drifted.ID()))
	suite.Equal(1, suite.load(clamped.ID()))
	suite.Equal(1, suite.load(exact.ID()))

	for _, c := range corrections {
		if c.PartnerID.IsEqual(drifted.ID()) {
			suite.Equal(7, c.Previous)
			suite.Equal(1, c.Current)
		}
	}

	again, err := suite.repository.ReconcileLoad(ctx)
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestReconcileLoad_WaitsForInFlightDispatch() {
	ctx := context.Background()
	p := suite.addPartner("Single", 1, 0, true)

	dispatch := suite.database.DB.WithContext(ctx).Begin()
	suite.Require().NoError(dispatch.Error)
	defer dispatch.Rollback()

	reserved, err := partnerrepo.NewGormPartnerRepository(dispatch, suite.tracker).TryReserve(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Require().True(reserved)

	done := make(chan error, 1)
	go func() {
		_, reconcileErr := suite.repository.ReconcileLoad(ctx)
		done <- reconcileErr
	}()

	select {
	case err = <-done:
		suite.FailNow("reconcile did not wait for the reservation", "err: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	suite.addOrderWith(orderrepo.NewGormOrderRepository(dispatch, suite.tracker), p.ID(), order.Pending)
	suite.Require().NoError(dispatch.Commit().Error)

	select {
	case err = <-done:
		suite.Require().NoError(err)
	case <-time.After(10 * time.Second):
		suite.FailNow("reconcile never finished")
	}

	suite.Equal(1, suite.load(p.ID()))
	reserved, err = suite.repository.TryReserve(ctx, p.ID())
	suite.Require().NoError(err)
	suite.False(reserved, "a full partner must stay full")
}

func (suite *PartnerRepositoryIntegrationTestSuite) addPartner(name string, capacity, load int, verified bool) *partner.Partner {
	location, err := kernel.NewGeoPoint(-7.2755, 112.7583)
	suite.Require().NoError(err)
	p, err := partner.RestorePartner(kernel.NewUUID(), kernel.NewUUID(), name, "Surabaya", location, capacity, load, 4.8, verified)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), p))
	return p
}

func (suite *PartnerRepositoryIntegrationTestSuite) addOrder(partnerID kernel.UUID, status order.Status) {
	suite.addOrderWith(suite.orders, partnerID, status)
}

func (suite *PartnerRepositoryIntegrationTestSuite) addOrderWith(
	orders *orderrepo.GormOrderRepository,
	partnerID kernel.UUID,
	status order.Status,
) {
	ctx := context.Background()
	number, err := orders.NextNumber(ctx)
	suite.Require().NoError(err)

	item, _ := order.NewItem("Kiloan", 2, "kg")
	quote, _ := order.NewQuote(decimal.NewFromInt(20000), 1440)
	pickup, _ := kernel.NewGeoPoint(-7.28, 112.76)
	route, _ := order.NewRoute("Jl. A", "Jl. B", pickup)
	o, err := order.NewOrder(kernel.NewUUID(), number, kernel.NewUUID(), partnerID,
		[]order.Item{item}, false, quote, route, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(o.OverrideStatus(status, time.Now()))
	suite.Require().NoError(orders.Add(ctx, o))
}

func (suite *PartnerRepositoryIntegrationTestSuite) load(id kernel.UUID) int {
	var dto partnerrepo.PartnerDTO
	suite.Require().NoError(suite.database.DB.First(&dto, "id = ?", id.Bytes()).Error)
	return dto.CurrentLoad
}

func TestPartnerRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PartnerRepositoryIntegrationTestSuite))
}
