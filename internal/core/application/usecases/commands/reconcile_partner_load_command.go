package commands

import (
	"errors"

	"laundry/internal/pkg/guard"
)

var ErrReconcilePartnerLoadCommandIsNotConstructed = errors.New(
	"ReconcilePartnerLoadCommand must be created via NewReconcilePartnerLoadCommand constructor",
)

// ReconcilePartnerLoadCommand asks to recompute every partner's load from its open orders.
type ReconcilePartnerLoadCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcilePartnerLoadCommand() ReconcilePartnerLoadCommand {
	return ReconcilePartnerLoadCommand{guard: guard.NewConstructorGuard()}
}

func (c ReconcilePartnerLoadCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePartnerLoadCommandIsNotConstructed)
}
