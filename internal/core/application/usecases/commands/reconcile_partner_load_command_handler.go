package commands

import (
	"context"

	"go.uber.org/zap"

	"laundry/internal/core/ports"
)

// ReconcilePartnerLoadCommandHandler repairs drift between partners.current_load and the
// number of open orders, e.g. after an administrator moved orders out of band.
type ReconcilePartnerLoadCommandHandler struct {
	uowFactory PartnerUoWFactory
	logger     *zap.Logger
}

func NewReconcilePartnerLoadCommandHandler(uowFactory PartnerUoWFactory, logger *zap.Logger) *ReconcilePartnerLoadCommandHandler {
	return &ReconcilePartnerLoadCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.Named("reconcile_partner_load"),
	}
}

// Handle returns the corrections it applied.
func (h *ReconcilePartnerLoadCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcilePartnerLoadCommand,
) ([]ports.LoadCorrection, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	corrections, err := uow.PartnerRepository().ReconcileLoad(ctx)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	for _, c := range corrections {
		h.logger.Warn("partner load drift corrected",
			zap.String("partner", c.PartnerID.String()),
			zap.Int("previous", c.Previous),
			zap.Int("current", c.Current),
		)
	}

	return corrections, nil
}
