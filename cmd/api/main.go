package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentapi/docs"
	"contentapi/internal/config"
	"contentapi/internal/database"
	"contentapi/internal/database/migration"
	"contentapi/internal/editor"
	handlers "contentapi/internal/http/handler"
	"contentapi/internal/http/middleware"
	"contentapi/internal/logging"
	"contentapi/internal/otel"
	"contentapi/internal/repository/cached"
	"contentapi/internal/repository/postgres"
	"contentapi/internal/service"
	"contentapi/internal/storage"
)

// @title Content API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)
	slog.SetDefault(logger)
	mainLog := logger.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		mainLog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		mainLog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			mainLog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		mainLog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	schemas, err := editor.LoadSchemaDir(cfg.Editors.JSONSchemaDir)
	if err != nil {
		mainLog.Error("failed to load json schemas", "error", err)
		os.Exit(1)
	}
	registry, err := editor.NewDefaultRegistry(editor.Deps{
		Media:       objStore,
		MediaPrefix: cfg.Upload.MediaPrefix,
		JSONSchemas: schemas,
	})
	if err != nil {
		mainLog.Error("failed to build property editor registry", "error", err)
		os.Exit(1)
	}
	mainLog.Info("property editors registered", "editors", registry.Aliases())

	// Initialize repositories and services
	types := cached.NewContentTypes(postgres.NewContentTypePostgres(db), time.Duration(cfg.ContentTypeCacheTTL)*time.Second)
	contents := postgres.NewContentPostgres(db, types)
	contentSvc := service.NewContentService(contents, types, logger)
	binder := service.NewBinder(contents, types, registry)
	stager := storage.NewStager(objStore, cfg.Upload.StagingPrefix, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		mainLog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.MaxBytes,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:          db,
		Store:       objStore,
		Contents:    contentSvc,
		Binder:      binder,
		Stager:      stager,
		MediaPrefix: cfg.Upload.MediaPrefix,
		PresignTTL:  time.Duration(cfg.Upload.PresignTTLSec) * time.Second,
		Log:         logger,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		mainLog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			mainLog.Error("shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		mainLog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
