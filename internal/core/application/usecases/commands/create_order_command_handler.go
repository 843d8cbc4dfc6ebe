package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
)

const tracerName = "laundry/commands"

// CreateOrderResult is what the customer sees after a successful order.
type CreateOrderResult struct {
	Order           *order.Order
	PartnerName     string
	Explanation     string
	ConfidenceScore float64
}

// CreateOrderCommandHandler prices an order with the oracle, picks the best partner and
// persists the order with the partner's capacity reserved in the same transaction.
//
// Flow:
//  1. estimate price and time; failure is ErrEstimationFailed
//  2. rank available partners; none is ErrNoPartnerAvailable
//  3. reserve capacity on the best candidate, falling back down the ranking when a
//     concurrent dispatch took the last slot
//  4. draw the order number and insert the PENDING order
//  5. after commit, notify the partner and the administrators
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	oracle     ports.PricingOracle
	matcher    services.PartnerMatcher
	publisher  notificationPublisher
	metrics    Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	oracle ports.PricingOracle,
	notifier ports.Notifier,
	metrics Metrics,
	logger *zap.Logger,
) *CreateOrderCommandHandler {
	logger = logger.Named("create_order")
	return &CreateOrderCommandHandler{
		uowFactory: uowFactory,
		oracle:     oracle,
		matcher:    services.NewPartnerMatcher(),
		publisher:  notificationPublisher{notifier: notifier, metrics: metrics, logger: logger},
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle runs the whole dispatch. Nothing is persisted unless every step succeeds.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "CreateOrder")
	defer span.End()

	result, err := h.handle(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.metrics.DispatchFailed(failureReason(err))
		return CreateOrderResult{}, err
	}

	span.SetAttributes(
		attribute.String("order.number", result.Order.Number().String()),
		attribute.String("order.partner_id", result.Order.PartnerID().String()),
	)
	return result, nil
}

func (h *CreateOrderCommandHandler) handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	estimation, err := h.oracle.Estimate(ctx, cmd.Items(), cmd.IsExpress())
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("%w: %w", ErrEstimationFailed, err)
	}

	quote, err := order.NewQuote(estimation.TotalPrice, estimation.EstimatedMinutes)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("%w: %w", ErrEstimationFailed, err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	partnerRepo := uow.PartnerRepository()
	available, err := partnerRepo.GetAllAvailable(ctx)
	if err != nil {
		return CreateOrderResult{}, err
	}

	ranked, err := h.matcher.Rank(cmd.Route().Pickup(), available)
	if err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			return CreateOrderResult{}, ErrNoPartnerAvailable
		}
		return CreateOrderResult{}, err
	}

	chosen, err := h.reserve(ctx, partnerRepo, ranked)
	if err != nil {
		return CreateOrderResult{}, err
	}

	orderRepo := uow.OrderRepository()
	number, err := orderRepo.NextNumber(ctx)
	if err != nil {
		return CreateOrderResult{}, err
	}

	created, err := order.NewOrder(
		kernel.NewUUID(),
		number,
		cmd.CustomerID(),
		chosen.ID(),
		cmd.Items(),
		cmd.IsExpress(),
		quote,
		cmd.Route(),
		h.now(),
	)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = orderRepo.Add(ctx, created); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	h.metrics.OrderCreated(created.IsExpress())
	h.logger.Info("order dispatched",
		zap.String("order", created.Number().String()),
		zap.String("partner", chosen.ID().String()),
		zap.Int("partner_load", chosen.CurrentLoad()),
		zap.String("total_price", quote.TotalPrice().String()),
	)

	h.publisher.publish(ctx, newOrderNotifications(created, chosen.UserID())...)

	return CreateOrderResult{
		Order:           created,
		PartnerName:     chosen.Name(),
		Explanation:     estimation.Explanation,
		ConfidenceScore: estimation.ConfidenceScore,
	}, nil
}

// reserve walks the ranking until one partner accepts the reservation.
func (h *CreateOrderCommandHandler) reserve(
	ctx context.Context,
	repo ports.PartnerRepository,
	ranked []*partner.Partner,
) (*partner.Partner, error) {
	for _, candidate := range ranked {
		reserved, err := repo.TryReserve(ctx, candidate.ID())
		if err != nil {
			return nil, err
		}
		if !reserved {
			h.logger.Debug("partner filled up during dispatch", zap.String("partner", candidate.ID().String()))
			continue
		}
		// Mirror the row update on the snapshot. The row just accepted one more order, so a
		// refusal here only means the snapshot was stale; the database count wins.
		if err := candidate.Reserve(); err != nil {
			h.logger.Debug("partner snapshot out of date after reservation",
				zap.String("partner", candidate.ID().String()), zap.Error(err))
		}
		return candidate, nil
	}
	return nil, ErrNoPartnerAvailable
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEstimationFailed):
		return FailureEstimation
	case errors.Is(err, ErrNoPartnerAvailable):
		return FailureNoPartner
	case errors.Is(err, ports.ErrDuplicateOrderNumber):
		return FailureConflict
	default:
		return FailureInternal
	}
}
