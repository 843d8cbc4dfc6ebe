package queries_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/partnerrepo"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

type ListOrdersQueryHandlerTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	handler   queries.ListOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository

	hq       *partner.Partner
	branch   *partner.Partner
	customer kernel.UUID
	courier  kernel.UUID
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.handler = queries.NewListOrdersQueryHandler(database.DB)
	suite.orderRepo = orderrepo.NewGormOrderRepository(database.DB, nopTracker{})
}

func (suite *ListOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset())

	suite.hq = suite.addPartner("Clean & Fresh Laundry HQ")
	suite.branch = suite.addPartner("Kertajaya Branch")
	suite.customer = kernel.NewUUID()
	suite.courier = kernel.NewUUID()
}

func (suite *ListOrdersQueryHandlerTestSuite) addPartner(name string) *partner.Partner {
	location, err := kernel.NewGeoPoint(-7.2755, 112.7583)
	suite.Require().NoError(err)
	p, err := partner.RestorePartner(kernel.NewUUID(), kernel.NewUUID(), name, "Surabaya", location, 50, 0, 4.8, true)
	suite.Require().NoError(err)
	suite.Require().NoError(partnerrepo.NewGormPartnerRepository(suite.database.DB, nopTracker{}).Add(context.Background(), p))
	return p
}

func (suite *ListOrdersQueryHandlerTestSuite) addOrder(
	seq int64,
	customerID kernel.UUID,
	p *partner.Partner,
	status order.Status,
	courierID *kernel.UUID,
	created time.Time,
) {
	number, err := order.NewNumber(seq)
	suite.Require().NoError(err)
	item, err := order.NewItem("Kiloan", 2.5, "kg")
	suite.Require().NoError(err)
	quote, err := order.NewQuote(decimal.RequireFromString("17500.00"), 1440)
	suite.Require().NoError(err)
	route, err := order.NewRoute("Jl. Kertajaya 10", "Jl. Darmo 5", p.Location())
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(order.State{
		ID:         kernel.NewUUID(),
		Number:     number,
		CustomerID: customerID,
		PartnerID:  p.ID(),
		CourierID:  courierID,
		Items:      []order.Item{item},
		Quote:      quote,
		Route:      route,
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
		Version:    1,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
}

func (suite *ListOrdersQueryHandlerTestSuite) list(userID kernel.UUID, role kernel.Role) []queries.OrderView {
	actor, err := kernel.NewActor(userID, role)
	suite.Require().NoError(err)
	query, err := queries.NewListOrdersQuery(actor)
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	return views
}

func numbers(views []queries.OrderView) []string {
	result := make([]string, 0, len(views))
	for _, v := range views {
		result = append(result, v.Number)
	}
	return result
}

func (suite *ListOrdersQueryHandlerTestSuite) seed() {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	other := kernel.NewUUID()
	rival := kernel.NewUUID()

	suite.addOrder(1, suite.customer, suite.hq, order.Pending, nil, base)
	suite.addOrder(2, other, suite.branch, order.PickupAssigned, &rival, base.Add(time.Minute))
	suite.addOrder(3, suite.customer, suite.branch, order.PickedUp, &suite.courier, base.Add(2*time.Minute))
	suite.addOrder(4, other, suite.hq, order.ReadyForDelivery, &rival, base.Add(3*time.Minute))
	suite.addOrder(5, other, suite.hq, order.Completed, &rival, base.Add(4*time.Minute))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	views := suite.list(kernel.NewUUID(), kernel.RoleAdmin)

	suite.NotNil(views)
	suite.Empty(views)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_Admin_SeesEverythingNewestFirst() {
	suite.seed()

	views := suite.list(kernel.NewUUID(), kernel.RoleAdmin)

	suite.Equal([]string{"ORD-0005", "ORD-0004", "ORD-0003", "ORD-0002", "ORD-0001"}, numbers(views))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_Customer_SeesOwnOrders() {
	suite.seed()

	views := suite.list(suite.customer, kernel.RoleCustomer)

	suite.Equal([]string{"ORD-0003", "ORD-0001"}, numbers(views))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_Partner_SeesOwnPartnerOrders() {
	suite.seed()

	views := suite.list(suite.hq.UserID(), kernel.RolePartner)

	suite.Equal([]string{"ORD-0005", "ORD-0004", "ORD-0001"}, numbers(views))
	for _, v := range views {
		suite.Equal("Clean & Fresh Laundry HQ", v.PartnerName)
	}
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_PartnerWithoutRecord_SeesNothing() {
	suite.seed()

	suite.Empty(suite.list(kernel.NewUUID(), kernel.RolePartner))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_Courier_SeesOwnAndClaimableOrders() {
	suite.seed()

	views := suite.list(suite.courier, kernel.RoleCourier)

	suite.Equal([]string{"ORD-0004", "ORD-0003", "ORD-0001"}, numbers(views))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_SameTimestamp_OrdersByNumberDescending() {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	suite.addOrder(1, suite.customer, suite.hq, order.Pending, nil, at)
	suite.addOrder(2, suite.customer, suite.hq, order.Pending, nil, at)

	views := suite.list(suite.customer, kernel.RoleCustomer)

	suite.Equal([]string{"ORD-0002", "ORD-0001"}, numbers(views))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_MapsEveryColumn() {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	suite.addOrder(9, suite.customer, suite.hq, order.PickedUp, &suite.courier, created)

	views := suite.list(suite.customer, kernel.RoleCustomer)

	suite.Require().Len(views, 1)
	v := views[0]
	suite.Equal("ORD-0009", v.Number)
	suite.Equal(suite.customer, v.CustomerID)
	suite.Equal(suite.hq.ID(), v.PartnerID)
	suite.Require().NotNil(v.CourierID)
	suite.Equal(suite.courier, *v.CourierID)
	suite.Equal([]queries.ItemView{{Name: "Kiloan", Quantity: 2.5, Unit: "kg"}}, v.Items)
	suite.True(v.TotalPrice.Equal(decimal.RequireFromString("17500")))
	suite.Equal(1440, v.EstimatedMinutes)
	suite.Equal("Jl. Kertajaya 10", v.PickupAddress)
	suite.Equal("Jl. Darmo 5", v.DeliveryAddress)
	suite.InDelta(-7.2755, v.PickupLat, 1e-9)
	suite.InDelta(112.7583, v.PickupLng, 1e-9)
	suite.Equal("PICKED_UP", v.Status)
	suite.True(created.Equal(v.CreatedAt))
}

func TestListOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListOrdersQueryHandlerTestSuite))
}

func TestNewListOrdersQuery(t *testing.T) {
	_, err := queries.NewListOrdersQuery(kernel.Actor{})
	require.Error(t, err)

	require.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
}
