package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketflow/internal/infrastructure/migration"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

var (
	flags bootstrap.Flags
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the versioned goose migrations.`,
	}

	flags.Register(cmd)

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func initEnv() (*bootstrap.Runtime, *migration.GooseStrategy, error) {
	rt, err := bootstrap.Load(&flags)
	if err != nil {
		return nil, nil, err
	}
	if err := rt.OpenDatabase(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return rt, migration.NewGooseStrategy(rt.Cfg.Database.Driver), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running up migrations", "environment", flags.Env)

	if err := strategy.Migrate(rt.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	rt, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running down migrations", "environment", flags.Env, "steps", steps)

	if err := strategy.MigrateDown(rt.DB, steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer rt.Close()

	version, err := strategy.GetVersion(rt.DB)
	if err != nil {
		return err
	}

	logger.Info("migration status", "environment", flags.Env, "version", version)
	fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)
	return nil
}
