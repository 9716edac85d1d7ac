package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/student-management/internal/api/http"
	"github.com/spec-kit/student-management/internal/api/http/handlers"
	"github.com/spec-kit/student-management/internal/config"
	"github.com/spec-kit/student-management/internal/events"
	"github.com/spec-kit/student-management/internal/observability"
	"github.com/spec-kit/student-management/internal/persistence"
	"github.com/spec-kit/student-management/internal/service"
	"github.com/spec-kit/student-management/internal/worker"
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

	logger = logger.With(zap.String("service", cfg.App.Name), zap.String("profile", string(cfg.App.Profile)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	store, err := persistence.OpenStore(ctx, *cfg, logger, metrics)
	if err != nil {
		logger.Fatal("failed to open department store", zap.Error(err))
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger.Named("audit"))

	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: store.Departments,
		Dispatcher:     dispatcher,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.Checks()),
		Departments: handlers.NewDepartmentHandler(departmentService),
		Metrics:     metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
