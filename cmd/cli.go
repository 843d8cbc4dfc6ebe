package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"laundry/internal/adapters/out/postgres/migrations"
	"laundry/internal/seeder"
)

const stopTimeout = 10 * time.Second

type globalFlags struct {
	envFile string
}

func (g *globalFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&g.envFile, "env-file", "", "dotenv file loaded before reading the environment (default .env)")
}

// NewRootCommand builds the root laundry CLI command.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "laundry",
		Short:         "Laundry marketplace dispatch service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root.PersistentFlags())

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newMigrateCmd(flags))
	root.AddCommand(newSeedCmd(flags))
	root.AddCommand(newRelayCmd(flags))

	return root
}

// Execute runs the laundry CLI until ctx is cancelled or the command returns.
func Execute(ctx context.Context) error {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUntilDone(cmd.Context(), HTTP(flags.envFile))
		},
	}
}

func newRelayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Forward kafka notifications to redis pub/sub",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUntilDone(cmd.Context(), Relay(flags.envFile))
		},
	}
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var mig *migrations.Migrator
			opts := fx.Options(Migrations(flags.envFile), fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			var mig *migrations.Migrator
			opts := fx.Options(Migrations(flags.envFile), fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var mig *migrations.Migrator
			opts := fx.Options(Migrations(flags.envFile), fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				version, err := mig.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
				return nil
			})
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}

func newSeedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run database seeders",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *seeder.Seeder
			opts := fx.Options(Seeding(flags.envFile), fx.Populate(&seed))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				inserted, err := seed.Partners(ctx)
				if err != nil {
					return err
				}
				if inserted {
					fmt.Fprintln(cmd.OutOrStdout(), "seed data applied")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "seed data already present")
				}
				return nil
			})
		},
	}
}

// runUntilDone starts the application and keeps it running until ctx is cancelled.
func runUntilDone(ctx context.Context, opts fx.Option) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return application.Stop(stopCtx)
}

func runWithApp(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx)
}
