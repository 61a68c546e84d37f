// Package main is the entry point of the SafeTrade API.
// It wires every dependency with fx, mounts the routes and
// runs the HTTP server until the process is asked to stop.
package main

import (
	"context"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/events"
	"safetrade/internal/handlers"
	"safetrade/internal/logger"
	"safetrade/internal/metrics"
	"safetrade/internal/middleware"
	"safetrade/internal/repositories"
	"safetrade/internal/repositories/cache"
	"safetrade/internal/routes"
	"safetrade/internal/services/auth"
	"safetrade/internal/services/dashboard"
	"safetrade/internal/services/dispute"
	"safetrade/internal/services/notification"
	"safetrade/internal/services/payment"
	"safetrade/internal/services/room"
	"safetrade/internal/services/settings"
	"safetrade/internal/services/transaction"
	"safetrade/internal/services/user"
	"safetrade/internal/utils"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbStatsInterval = 15 * time.Second

func main() {
	config.LoadEnv()

	fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			logger.New,
			metrics.NewMetrics,
			newDatabase,
			newCache,
			newPublisher,
			payment.NewVerifier,
			utils.NewTokenManager,
			validation.New,
		),
		repositoryModule,
		serviceModule,
		handlerModule,
		fx.Invoke(startServer),
	).Run()
}

var repositoryModule = fx.Options(
	fx.Provide(
		repositories.NewTransactionManager,
		repositories.NewUserRepository,
		repositories.NewTransactionRepository,
		repositories.NewDisputeRepository,
		repositories.NewRoomRepository,
		repositories.NewNotificationRepository,
		repositories.NewSettingRepository,
	),
)

var serviceModule = fx.Options(
	fx.Provide(
		notification.NewService,
		settings.NewService,
		newTransactionService,
		newDisputeService,
		auth.NewService,
		user.NewService,
		room.NewService,
		dashboard.NewService,
		func(s settings.Service) middleware.MaintenanceChecker { return s },
	),
)

var handlerModule = fx.Options(
	fx.Provide(
		middleware.NewAuthMiddleware,
		handlers.NewAuthHandler,
		handlers.NewTransactionHandler,
		handlers.NewDisputeHandler,
		handlers.NewRoomHandler,
		handlers.NewNotificationHandler,
		handlers.NewUserHandler,
		handlers.NewAdminHandler,
		handlers.NewDashboardHandler,
		handlers.NewHealthHandler,
		newApp,
	),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*gorm.DB, error) {
	db, err := repositories.NewDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return nil, err
	}

	collector := metrics.NewDatabaseCollector(m, log, db)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			collector.Start(dbStatsInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			collector.Stop()
			return repositories.Close(db)
		},
	})
	return db, nil
}

// newCache keeps the API up when redis is down; the cache then always misses.
func newCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *cache.CacheService {
	client := cache.NewRedisClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, caching disabled", zap.Error(err))
		_ = client.Close()
		return cache.NewCacheService(nil, cfg.Redis.TTL)
	}

	svc := cache.NewCacheService(client, cfg.Redis.TTL)
	lc.Append(fx.StopHook(svc.Close))
	return svc
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) events.Publisher {
	p := events.NewPublisher(cfg, m, log)
	lc.Append(fx.StopHook(p.Close))
	return p
}

func newTransactionService(
	repo repositories.TransactionRepository,
	users repositories.UserRepository,
	rooms repositories.RoomRepository,
	txManager repositories.TxManager,
	notifications notification.Service,
	limits settings.Service,
	verifier payment.Verifier,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) transaction.Service {
	return transaction.NewService(repo, users, rooms, txManager, notifications, limits, verifier, publisher, m, log.Named("transaction"))
}

func newDisputeService(
	repo repositories.DisputeRepository,
	txns repositories.TransactionRepository,
	txManager repositories.TxManager,
	transactions transaction.Service,
	notifications notification.Service,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) dispute.Service {
	return dispute.NewService(repo, txns, txManager, transactions, notifications, publisher, m, log.Named("dispute"))
}

func newApp(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SafeTrade API",
		ErrorHandler: middleware.ErrorHandler(cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.HTTPMetricsMiddleware(m, log))
	return app
}

func startServer(lc fx.Lifecycle, app *fiber.App, deps routes.Deps, settingsService settings.Service, cfg *config.Config, log *zap.Logger) {
	routes.SetupRoutes(app, deps)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := settingsService.SeedDefaults(ctx); err != nil {
				log.Warn("failed to seed system settings", zap.Error(err))
			}
			go func() {
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
