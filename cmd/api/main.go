package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chamados-service/internal/api/http"
	"github.com/spec-kit/chamados-service/internal/api/http/handlers"
	"github.com/spec-kit/chamados-service/internal/broadcast"
	"github.com/spec-kit/chamados-service/internal/config"
	"github.com/spec-kit/chamados-service/internal/events"
	"github.com/spec-kit/chamados-service/internal/observability"
	"github.com/spec-kit/chamados-service/internal/persistence"
	"github.com/spec-kit/chamados-service/internal/repository"
	"github.com/spec-kit/chamados-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		ticketStore repository.TicketStore
		boardStore  repository.BoardStore
		storageDep  handlers.Dependency
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		ticketStore = repository.NewPostgresStore(pg.PoolHandle())
		boardStore = repository.NewPostgresBoardStore(pg.PoolHandle())
		storageDep = handlers.Dependency{Name: "postgres", Pinger: pg}
	case config.DriverSQLite:
		lite, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer lite.Close()

		ticketStore = repository.NewSQLiteStore(lite.DB)
		boardStore = repository.NewSQLiteBoardStore(lite.DB)
		storageDep = handlers.Dependency{Name: "sqlite", Pinger: lite}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	broadcaster := broadcast.NewBroadcaster(logger, metrics)
	dispatcher.Subscribe(broadcaster.HandleEvent)

	healthDeps := []handlers.Dependency{storageDep}
	if cfg.Redis.RelayEnabled() {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()

		relay := broadcast.NewRelay(redis.Client, cfg.Redis.RelayChannel, uuid.NewString(), broadcaster, logger)
		dispatcher.Subscribe(relay.HandleEvent)
		go relay.Run(ctx)
		healthDeps = append(healthDeps, handlers.Dependency{Name: "redis", Pinger: redis})
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      ticketStore,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	boardService := service.NewBoardService(boardStore)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps...),
		Tickets:   handlers.NewTicketsHandler(ticketService),
		Board:     handlers.NewBoardHandler(boardService),
		Stream:    handlers.NewStreamHandler(broadcaster),
		StaticDir: cfg.App.StaticDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
