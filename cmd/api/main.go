package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/technoghar/repair-service/internal/api/http"
	"github.com/technoghar/repair-service/internal/api/http/handlers"
	"github.com/technoghar/repair-service/internal/auth"
	"github.com/technoghar/repair-service/internal/config"
	"github.com/technoghar/repair-service/internal/events"
	"github.com/technoghar/repair-service/internal/observability"
	"github.com/technoghar/repair-service/internal/persistence"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/internal/service"
	"github.com/technoghar/repair-service/internal/session"
	"github.com/technoghar/repair-service/internal/store"
	"github.com/technoghar/repair-service/internal/worker"
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

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var recordStore store.Store
	if collection := mongo.Collection(cfg.Mongo.UsersCollection); collection != nil {
		recordStore = store.NewMongoStore(collection)
	} else {
		logger.Warn("using in-memory record store; data will not survive restarts")
		recordStore = store.NewMemStore()
	}

	userRepo := repository.NewUserRepository(recordStore)
	sessions := session.NewManager(redis.Client, cfg.Auth.SessionTTL())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Sessions: sessions,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	repairService := service.NewRepairService(service.RepairDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(sessions, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Repairs:        handlers.NewRepairsHandler(repairService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
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
