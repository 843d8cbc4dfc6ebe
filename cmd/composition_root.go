package cmd

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laundry/internal/adapters/out/postgres"
	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/metrics"
)

// CompositionRoot builds use case handlers over the shared database, oracle and notifier.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	oracle     ports.PricingOracle
	notifier   ports.Notifier
	recorder   *metrics.Recorder
	logger     *zap.Logger
}

func NewCompositionRoot(
	gormDB *gorm.DB,
	oracle ports.PricingOracle,
	notifier ports.Notifier,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *CompositionRoot {
	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		oracle:     oracle,
		notifier:   notifier,
		recorder:   recorder,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.oracle, c.notifier, c.recorder, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.notifier, c.recorder, c.logger)
}

func (c *CompositionRoot) CreateReconcilePartnerLoadCommandHandler() *commands.ReconcilePartnerLoadCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcilePartnerLoadCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
