package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/agrisupport/complaint-service/internal/access"
	httptransport "github.com/agrisupport/complaint-service/internal/api/http"
	"github.com/agrisupport/complaint-service/internal/api/http/handlers"
	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/catalog"
	"github.com/agrisupport/complaint-service/internal/config"
	"github.com/agrisupport/complaint-service/internal/events"
	"github.com/agrisupport/complaint-service/internal/observability"
	"github.com/agrisupport/complaint-service/internal/persistence"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/service"
	"github.com/agrisupport/complaint-service/internal/sla"
	"github.com/agrisupport/complaint-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	callLogRepo := repository.NewCallLogRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	orgRepo := repository.NewOrgRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)

	catalogResolver := catalog.NewResolver(statusRepo, redis.Client, logger, cfg.Redis.CatalogTTL())
	scopeResolver := access.NewResolver()

	critical, urgent, normal := cfg.SLA.Offsets()
	slaCalc := sla.NewCalculator(sla.Offsets{Critical: critical, Urgent: urgent, Normal: normal})

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CallLogRepo: callLogRepo,
		AuditRepo:   auditRepo,
		OrgRepo:     orgRepo,
		StaffRepo:   staffRepo,
		Catalog:     catalogResolver,
		Scope:       scopeResolver,
		SLA:         slaCalc,
		Dispatcher:  dispatcher,
	})
	statsService := service.NewStatsService(ticketRepo, catalogResolver, scopeResolver, slaCalc)
	authService := service.NewAuthService(*cfg, staffRepo, auditRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo, cfg.Auth.MasterAdminEmail)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
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
