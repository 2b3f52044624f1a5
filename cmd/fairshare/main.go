package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fairshare/adapter/api"
	"github.com/felixgeelhaar/fairshare/internal/app"
	"github.com/felixgeelhaar/fairshare/pkg/config"
	"github.com/felixgeelhaar/fairshare/pkg/observability"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairshare",
		Short: "FairShare - fair exposure engine for creator showcases",
		Long: `FairShare serves discovery feeds that favor the least exposed
projects, counts views and likes exactly once per identity, and
notifies creators when their work is liked.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd(), workerCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func buildContainer(ctx context.Context) (*app.Container, *config.Config, error) {
	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return container, cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			container, cfg, err := buildContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Close()
			logger := container.Logger

			if cfg.OutboxProcessorEnabled {
				if err := container.OutboxProcessor.Start(ctx); err != nil {
					return fmt.Errorf("failed to start outbox processor: %w", err)
				}
			}

			showcaseHandler := api.NewShowcaseHandler(api.ShowcaseHandlerConfig{
				SelectFeed:    container.SelectFeedHandler,
				RegisterView:  container.RegisterViewHandler,
				ToggleLike:    container.ToggleLikeHandler,
				CreateProject: container.CreateProjectHandler,
				GetProject:    container.GetProjectHandler,
				CreatorStats:  container.CreatorStatsHandler,
				Logger:        logger,
			})
			notificationsHandler := api.NewNotificationsHandler(api.NotificationsHandlerConfig{
				List:        container.ListNotificationsHandler,
				MarkRead:    container.MarkReadHandler,
				MarkAllRead: container.MarkAllReadHandler,
				Logger:      logger,
			})

			serverCfg := api.DefaultServerConfig()
			serverCfg.Addr = cfg.HTTPAddr
			server := api.NewServer(serverCfg, showcaseHandler, notificationsHandler, logger)

			errCh := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the outbox relay worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			container, cfg, err := buildContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Close()
			logger := container.Logger

			if err := container.OutboxProcessor.Start(ctx); err != nil {
				return fmt.Errorf("failed to start outbox processor: %w", err)
			}
			logger.Info("outbox processor started",
				"poll_interval", cfg.OutboxPollInterval,
				"batch_size", cfg.OutboxBatchSize,
				"max_retries", cfg.OutboxMaxRetries,
			)

			cleanupTicker := time.NewTicker(cfg.OutboxCleanupInterval)
			defer cleanupTicker.Stop()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-cleanupTicker.C:
						deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
						if err != nil {
							logger.Error("outbox cleanup failed", "error", err)
							continue
						}
						if deleted > 0 {
							logger.Info("outbox cleanup completed",
								"deleted", deleted,
								"retention_days", cfg.OutboxRetentionDays,
							)
						}
					}
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down worker")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			container, _, err := buildContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.RunMigrations(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			container.Logger.Info("migrations applied")
			return nil
		},
	}
}
