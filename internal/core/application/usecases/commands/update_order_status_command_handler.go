package commands

import (
	"context"
	"errors"
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
	"laundry/internal/pkg/errs"
)

// UpdateOrderStatusResult is the changed order and the name of its partner.
type UpdateOrderStatusResult struct {
	Order       *order.Order
	PartnerName string
}

// UpdateOrderStatusCommandHandler moves an order through its lifecycle on behalf of an
// actor.
//
// The order row is locked for the whole transaction and written back guarded by its
// version, so two couriers racing for the same order are serialized and the second one is
// rejected by the ownership check. Completing an order releases one unit of the partner's
// load in the same transaction.
//
// Changes to one order handled by this instance run one after another up to and including
// their notifications, so subscribers see them in commit order. Notifications carry the
// committed version for subscribers fed by other instances.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	guard      services.TransitionGuard
	sequencer  *orderSequencer
	publisher  notificationPublisher
	metrics    Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	metrics Metrics,
	logger *zap.Logger,
) *UpdateOrderStatusCommandHandler {
	logger = logger.Named("update_order_status")
	return &UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewTransitionGuard(),
		sequencer:  newOrderSequencer(),
		publisher:  notificationPublisher{notifier: notifier, metrics: metrics, logger: logger},
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle applies the change and returns the updated order.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.number", cmd.Number().String()),
		attribute.String("order.target_status", cmd.Status().String()),
		attribute.String("actor.role", cmd.Actor().Role().String()),
	)

	release, err := h.sequencer.acquire(ctx, cmd.Number().String())
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}
	defer release()

	result, err := h.handle(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return UpdateOrderStatusResult{}, err
	}
	return result, nil
}

func (h *UpdateOrderStatusCommandHandler) handle(ctx context.Context, cmd UpdateOrderStatusCommand) (UpdateOrderStatusResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	partnerRepo := uow.PartnerRepository()

	current, err := orderRepo.GetByNumberForUpdate(ctx, cmd.Number())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return UpdateOrderStatusResult{}, ErrOrderNotFound
		}
		return UpdateOrderStatusResult{}, err
	}

	actorPartner, err := h.actorPartner(ctx, partnerRepo, cmd.Actor())
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	transition, err := h.guard.Apply(cmd.Actor(), current, actorPartner, cmd.Status(), cmd.CourierID(), h.now())
	if err != nil {
		if errors.Is(err, order.ErrCourierAlreadyAssigned) {
			return UpdateOrderStatusResult{}, ErrForbidden
		}
		return UpdateOrderStatusResult{}, err
	}

	if err = orderRepo.Update(ctx, current); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			h.metrics.DispatchFailed(FailureConflict)
		}
		return UpdateOrderStatusResult{}, err
	}

	if transition.ReleasesPartnerLoad() {
		if err = partnerRepo.Release(ctx, current.PartnerID()); err != nil {
			return UpdateOrderStatusResult{}, err
		}
	}

	owner, err := partnerRepo.Get(ctx, current.PartnerID())
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	h.metrics.StatusChanged(transition.From, transition.To)
	h.logger.Info("order status changed",
		zap.String("order", current.Number().String()),
		zap.Stringer("from", transition.From),
		zap.Stringer("to", transition.To),
		zap.String("role", cmd.Actor().Role().String()),
	)

	h.publisher.publish(ctx, orderUpdateNotifications(current, owner.UserID())...)

	return UpdateOrderStatusResult{Order: current, PartnerName: owner.Name()}, nil
}

// actorPartner loads the partner owned by a PARTNER actor. Other roles, and partners
// without a record, get nil.
func (h *UpdateOrderStatusCommandHandler) actorPartner(
	ctx context.Context,
	repo ports.PartnerRepository,
	actor kernel.Actor,
) (*partner.Partner, error) {
	if !actor.Is(kernel.RolePartner) {
		return nil, nil
	}

	p, err := repo.GetByUserID(ctx, actor.UserID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
