// Package app wires the engine's components together for the entrypoints.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	notifApplication "github.com/felixgeelhaar/fairshare/internal/notifications/application"
	notifCommands "github.com/felixgeelhaar/fairshare/internal/notifications/application/commands"
	notifQueries "github.com/felixgeelhaar/fairshare/internal/notifications/application/queries"
	notifDomain "github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	notifPersistence "github.com/felixgeelhaar/fairshare/internal/notifications/infrastructure/persistence"
	"github.com/felixgeelhaar/fairshare/internal/notifications/infrastructure/realtime"
	sharedApplication "github.com/felixgeelhaar/fairshare/internal/shared/application"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/outbox"
	showcaseCommands "github.com/felixgeelhaar/fairshare/internal/showcase/application/commands"
	showcaseQueries "github.com/felixgeelhaar/fairshare/internal/showcase/application/queries"
	showcaseDomain "github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	showcasePersistence "github.com/felixgeelhaar/fairshare/internal/showcase/infrastructure/persistence"
	"github.com/felixgeelhaar/fairshare/pkg/config"
)

// Container holds the wired dependency graph.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	pgPool   *pgxpool.Pool
	sqliteDB *sql.DB

	EngagementRepo   showcaseDomain.EngagementRepository
	NotificationRepo notifDomain.Repository
	OutboxRepo       outbox.Repository
	UnitOfWork       sharedApplication.UnitOfWork

	EventPublisher    eventbus.Publisher
	RealtimePublisher realtime.Publisher
	Dispatcher        *notifApplication.Dispatcher
	OutboxProcessor   *outbox.Processor

	SelectFeedHandler        *showcaseCommands.SelectFeedHandler
	RegisterViewHandler      *showcaseCommands.RegisterViewHandler
	ToggleLikeHandler        *showcaseCommands.ToggleLikeHandler
	CreateProjectHandler     *showcaseCommands.CreateProjectHandler
	GetProjectHandler        *showcaseQueries.GetProjectHandler
	CreatorStatsHandler      *showcaseQueries.GetCreatorStatsHandler
	ListNotificationsHandler *notifQueries.ListNotificationsHandler
	MarkReadHandler          *notifCommands.MarkReadHandler
	MarkAllReadHandler       *notifCommands.MarkAllReadHandler
}

// NewContainer wires the dependency graph for the configured database
// driver. Missing brokers degrade to noop publishers in development and are
// fatal in production; the real-time channel is best-effort everywhere.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.initMessaging(); err != nil {
		c.Close()
		return nil, err
	}
	c.initHandlers()

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	driver := database.Driver(c.Config.DatabaseDriver)
	if driver == "" || driver == "auto" {
		driver = database.DetectDriver(c.Config.DatabaseURL)
	}

	switch driver {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, c.Config.DatabaseURL)
		if err != nil {
			return err
		}
		c.pgPool = pool
		c.EngagementRepo = showcasePersistence.NewPostgresEngagementRepository(pool)
		c.NotificationRepo = notifPersistence.NewPostgresNotificationRepository(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	case database.DriverSQLite:
		db, err := database.OpenSQLite(ctx, c.Config.SQLitePath)
		if err != nil {
			return err
		}
		// The embedded driver has no external migration step.
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run sqlite migrations: %w", err)
		}
		c.sqliteDB = db
		c.EngagementRepo = showcasePersistence.NewSQLiteEngagementRepository(db)
		c.NotificationRepo = notifPersistence.NewSQLiteNotificationRepository(db)
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)

	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
	return nil
}

func (c *Container) initMessaging() error {
	rabbitPublisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
	} else {
		c.EventPublisher = rabbitPublisher
	}

	var pushPublisher realtime.Publisher
	redisPublisher, err := realtime.NewRedisPublisher(c.Config.RedisURL, c.Logger)
	if err != nil {
		c.Logger.Warn("Redis not available, real-time push disabled", "error", err)
		pushPublisher = realtime.NewNoopPublisher(c.Logger)
	} else {
		pushPublisher = redisPublisher
	}
	c.RealtimePublisher = realtime.NewBreakerPublisher(pushPublisher, realtime.DefaultBreakerConfig(), c.Logger)

	c.Dispatcher = notifApplication.NewDispatcher(c.NotificationRepo, c.RealtimePublisher, c.Logger)

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval: c.Config.OutboxPollInterval,
		BatchSize:    c.Config.OutboxBatchSize,
		MaxRetries:   c.Config.OutboxMaxRetries,
	}, c.Logger)

	return nil
}

func (c *Container) initHandlers() {
	c.SelectFeedHandler = showcaseCommands.NewSelectFeedHandler(c.EngagementRepo, showcaseCommands.SelectFeedConfig{
		PoolMinimum: c.Config.FeedPoolMinimum,
		PageSize:    c.Config.FeedPageSize,
	})
	c.RegisterViewHandler = showcaseCommands.NewRegisterViewHandler(c.EngagementRepo, c.OutboxRepo, c.UnitOfWork)
	c.ToggleLikeHandler = showcaseCommands.NewToggleLikeHandler(c.EngagementRepo, c.Dispatcher, c.OutboxRepo, c.UnitOfWork)
	c.CreateProjectHandler = showcaseCommands.NewCreateProjectHandler(c.EngagementRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetProjectHandler = showcaseQueries.NewGetProjectHandler(c.EngagementRepo)
	c.CreatorStatsHandler = showcaseQueries.NewGetCreatorStatsHandler(c.EngagementRepo)
	c.ListNotificationsHandler = notifQueries.NewListNotificationsHandler(c.NotificationRepo)
	c.MarkReadHandler = notifCommands.NewMarkReadHandler(c.NotificationRepo)
	c.MarkAllReadHandler = notifCommands.NewMarkAllReadHandler(c.NotificationRepo)
}

// RunMigrations applies the schema for the configured driver.
func (c *Container) RunMigrations(ctx context.Context) error {
	switch {
	case c.pgPool != nil:
		return migrations.RunPostgresMigrations(ctx, c.pgPool)
	case c.sqliteDB != nil:
		return migrations.RunSQLiteMigrations(ctx, c.sqliteDB)
	default:
		return fmt.Errorf("no database configured")
	}
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		c.EventPublisher.Close()
	}
	if c.RealtimePublisher != nil {
		c.RealtimePublisher.Close()
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	if c.sqliteDB != nil {
		c.sqliteDB.Close()
	}
}
