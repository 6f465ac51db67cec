package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketflow/internal/infrastructure/migration"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/ticketflow/internal/interfaces/http"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

var (
	flags       bootstrap.Flags
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the ticketflow HTTP API with the specified environment and configuration.`,
		RunE:  run,
	}

	flags.Register(cmd)
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (always on in development)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		flags.Env = envVar
	}

	rt, err := bootstrap.Load(&flags)
	if err != nil {
		return err
	}

	rt.Cfg.Server.Mode = mapEnvToGinMode(flags.Env)
	gin.SetMode(rt.Cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	logger.Info("starting server",
		"environment", flags.Env,
		"auto_migrate", autoMigrate,
		"lock_driver", rt.Cfg.Lock.Driver)

	if err := rt.OpenDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer rt.Close()

	if err := handleMigrations(rt); err != nil {
		return err
	}

	if err := rt.OpenContainer(); err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}

	if err := rt.Container.InitPermissions(); err != nil {
		return fmt.Errorf("failed to initialize permissions: %w", err)
	}

	router := httpRouter.NewRouter(rt.Container)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         rt.Cfg.Server.GetAddr(),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"address", srv.Addr,
			"mode", rt.Cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func handleMigrations(rt *bootstrap.Runtime) error {
	if !autoMigrate && flags.Env != constants.EnvDevelopment {
		version, err := migration.NewGooseStrategy(rt.Cfg.Database.Driver).GetVersion(rt.DB)
		if err != nil {
			logger.Warn("failed to check migration status", "error", err)
			return nil
		}
		logger.Info("current migration version", "version", version)
		return nil
	}

	if flags.Env == constants.EnvProduction {
		logger.Warn("auto-migration is enabled in production environment")
	}

	if err := migration.NewManager(flags.Env, rt.Cfg.Database.Driver).Migrate(rt.DB); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	logger.Info("auto-migration completed")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
