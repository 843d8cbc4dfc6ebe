package cmd

import (
	"go.uber.org/fx"
)

// Core provides configuration, logging, observability and the database pool.
func Core(envFile string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (Config, error) { return LoadConfig(envFile) },
			NewLogger,
			NewObservabilityManager,
			NewMetricsRecorder,
			NewGormDB,
		),
	)
}

// Dispatch adds the use case handlers and their outbound adapters.
func Dispatch(envFile string) fx.Option {
	return fx.Options(
		Core(envFile),
		fx.Provide(
			NewPricingOracle,
			NewNotifier,
			NewCompositionRoot,
		),
	)
}

// HTTP serves the API and runs the background jobs.
func HTTP(envFile string) fx.Option {
	return fx.Options(
		Dispatch(envFile),
		fx.Provide(
			NewAuthenticator,
			NewEcho,
			NewJobManager,
		),
		fx.Invoke(RunHTTPServer, RunJobs),
	)
}

// Relay forwards kafka notifications to redis pub/sub.
func Relay(envFile string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (Config, error) { return LoadConfig(envFile) },
			NewLogger,
			NewRelay,
		),
		fx.Invoke(RunRelay),
	)
}

// Migrations provides the goose migrator.
func Migrations(envFile string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (Config, error) { return LoadConfig(envFile) },
			NewLogger,
			NewMigrator,
		),
	)
}

// Seeding provides the development data seeder.
func Seeding(envFile string) fx.Option {
	return fx.Options(
		Core(envFile),
		fx.Provide(NewSeeder),
	)
}
