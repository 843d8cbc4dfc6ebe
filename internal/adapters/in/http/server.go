package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/generated/servers"
	"laundry/internal/pkg/errorbank"
)

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
}

type updateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (commands.UpdateOrderStatusResult, error)
}

type listOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderView, error)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       createOrderHandler
	updateOrderStatusHandler updateOrderStatusHandler

	// Query handlers
	listOrdersHandler listOrdersHandler

	logger *zap.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler createOrderHandler,
	updateOrderStatusHandler updateOrderStatusHandler,
	listOrdersHandler listOrdersHandler,
	logger *zap.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		listOrdersHandler:        listOrdersHandler,
		logger:                   logger.Named("http"),
	}
}

// CreateOrder handles POST /api/v1/orders - prices, dispatches and stores a new order for
// the calling user.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	var newOrder servers.NewOrder
	if err = ctx.Bind(&newOrder); err != nil {
		return respondError(ctx, s.logger, errorbank.BadRequest("invalid request body", errorbank.WithCause(err)))
	}

	cmd, err := newCreateOrderCommand(actor, newOrder)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusCreated, servers.CreatedOrder{
		Order:           toOrderResponse(result.Order, result.PartnerName),
		AiExplanation:   result.Explanation,
		ConfidenceScore: result.ConfidenceScore,
	})
}

// GetOrders handles GET /api/v1/orders - lists the orders the caller may see. The role
// query parameter is ignored; the token decides the scope.
func (s *Server) GetOrders(ctx echo.Context, _ servers.GetOrdersParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	query, err := queries.NewListOrdersQuery(actor)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	views, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	response := make([]servers.Order, len(views))
	for i, view := range views {
		response[i] = toOrderViewResponse(view)
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	number, err := order.ParseNumber(orderID)
	if err != nil {
		// a number that cannot exist names no order
		return respondError(ctx, s.logger, errorbank.NotFound("order not found", errorbank.WithCause(err)))
	}

	var body servers.UpdateOrderStatus
	if err = ctx.Bind(&body); err != nil {
		return respondError(ctx, s.logger, errorbank.BadRequest("invalid request body", errorbank.WithCause(err)))
	}

	courierID, err := fromOptionalID(body.CourierId)
	if err != nil {
		return respondError(ctx, s.logger, errorbank.BadRequest("invalid courier id", errorbank.WithCause(err)))
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actor, number, body.Status, courierID)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	result, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(result.Order, result.PartnerName))
}

func newCreateOrderCommand(actor kernel.Actor, body servers.NewOrder) (commands.CreateOrderCommand, error) {
	items, err := toItems(body.Items)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	pickup, err := kernel.NewGeoPoint(body.PickupLat, body.PickupLng)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	route, err := order.NewRoute(body.PickupAddress, body.DeliveryAddress, pickup)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	isExpress := body.IsExpress != nil && *body.IsExpress
	return commands.NewCreateOrderCommand(actor.UserID(), items, isExpress, route)
}
