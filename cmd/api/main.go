package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/digiticket/helpdesk-service/internal/api/http"
	"github.com/digiticket/helpdesk-service/internal/api/http/handlers"
	"github.com/digiticket/helpdesk-service/internal/auth"
	"github.com/digiticket/helpdesk-service/internal/config"
	"github.com/digiticket/helpdesk-service/internal/events"
	"github.com/digiticket/helpdesk-service/internal/observability"
	"github.com/digiticket/helpdesk-service/internal/persistence"
	"github.com/digiticket/helpdesk-service/internal/repository"
	"github.com/digiticket/helpdesk-service/internal/service"
	"github.com/digiticket/helpdesk-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	adminLogRepo := repository.NewAdminLogRepository(pool)
	uow := repository.NewPgxUnitOfWork(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	auditService := service.NewAuditService(uow, adminLogRepo)
	unreadCache := persistence.NewUnreadCache(redis, 0, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, unreadCache, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		UnitOfWork: uow,
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Audit:      auditService,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(uow, userRepo, auditService, cfg.Auth.BcryptCost)
	statsService := service.NewStatsService(ticketRepo)

	worker.StartNotificationWorker(dispatcher, notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Admin:          handlers.NewAdminHandler(ticketService, auditService),
		Stats:          handlers.NewStatsHandler(statsService),
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
