package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pdam-portal/internal/api/http"
	"github.com/spec-kit/pdam-portal/internal/api/http/handlers"
	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/config"
	"github.com/spec-kit/pdam-portal/internal/events"
	"github.com/spec-kit/pdam-portal/internal/observability"
	"github.com/spec-kit/pdam-portal/internal/persistence"
	"github.com/spec-kit/pdam-portal/internal/repository"
	"github.com/spec-kit/pdam-portal/internal/service"
	"github.com/spec-kit/pdam-portal/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	approvalRepo := repository.NewApprovalRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		CustomerRepo:      customerRepo,
		ApprovalRepo:      approvalRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		UserRepo:     userRepo,
		CustomerRepo: customerRepo,
		PaymentRepo:  paymentRepo,
		ApprovalRepo: approvalRepo,
		Dispatcher:   dispatcher,
		StatsCache:   redis,
		StatsTTL:     cfg.Cache.StatsTTL(),
	})
	topupService := service.NewTopupService(customerRepo, paymentRepo, dispatcher)
	monitoringService := service.NewMonitoringService(settingsRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, customerRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(approvalService, monitoringService)
	topupHandler := handlers.NewTopupHandler(topupService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Admin:          adminHandler,
		Topup:          topupHandler,
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
