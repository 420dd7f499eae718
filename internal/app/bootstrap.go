package app

import (
	"context"

	"wishboard/internal/app/board"
	"wishboard/internal/app/health"
	"wishboard/internal/app/plan"
	"wishboard/internal/config"
	"wishboard/internal/db"
	"wishboard/internal/db/seeder"
	"wishboard/internal/gateways/eventstream"
	"wishboard/internal/gateways/websocket"
	"wishboard/internal/providers/redis"
	"wishboard/internal/router"
	"wishboard/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
	Redis  *redis.RedisProvider
	Hub    *websocket.Hub

	cfg      *config.Config
	eventBus *utils.EventBus
	logger   *zap.Logger
}

func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	eventBus := utils.NewEventBus()

	notifier := plan.NewRedisNotifier(redisProvider, cfg.RedisChannel, plan.NewBusNotifier(eventBus), logger)

	planRepo := plan.NewRepository(dbConn)
	planService := plan.NewService(planRepo, redisProvider, notifier, logger)
	boardService := board.NewService(cfg.Board, planService)

	if cfg.SeedDemo {
		seed := seeder.NewSeeder(planService, logger)
		if err := seed.Seed(ctx, cfg.Board.Slug); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	hub := websocket.NewHub(logger, eventBus)

	healthHandler := health.NewHandler(utils.NewHealthChecker(dbConn, redisProvider.Client))
	boardHandler := board.NewHandler(boardService)
	planHandler := plan.NewHandler(planService)
	streamHandler := eventstream.NewHandler(eventBus, logger)

	r := router.NewRouter(logger, cfg.FrontendOrigin)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterEventStreamRoutes(streamHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterPlanRoutes(planHandler)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router:   r,
		DB:       dbConn,
		Redis:    redisProvider,
		Hub:      hub,
		cfg:      cfg,
		eventBus: eventBus,
		logger:   logger,
	}, nil
}

// RunBackground starts the websocket hub and the redis change relay on g.
// Both stop when ctx is done.
func (a *Application) RunBackground(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		a.Hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		<-plan.RelayChanges(ctx, a.Redis, a.cfg.RedisChannel, a.eventBus, a.logger)
		<-ctx.Done()
		return nil
	})
}

func (a *Application) Close() {
	if err := a.Redis.Close(); err != nil {
		a.logger.Warn("Failed to close redis", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
