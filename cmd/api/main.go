package main

import (
	"context"
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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"attachapi/docs"
	"attachapi/internal/config"
	"attachapi/internal/database"
	"attachapi/internal/database/migration"
	"attachapi/internal/deletion"
	handlers "attachapi/internal/http/handler"
	"attachapi/internal/http/middleware"
	"attachapi/internal/logger"
	"attachapi/internal/metrics"
	"attachapi/internal/model"
	"attachapi/internal/otel"
	"attachapi/internal/policy"
	"attachapi/internal/repository/postgres"
	"attachapi/internal/service"
	"attachapi/internal/storage"
)

// formSlack covers the non-file multipart fields and part headers.
const formSlack = 1 << 20

// @title Attachment API
// @version 1.0
// @description Reviews and service applications with object-store attachments.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Location())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(cfg.Store, log)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	m := metrics.NewWithRegistry(prometheus.DefaultRegisterer)
	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	// Deletion: one-by-one escalation wrapped by the batch coordinator
	deleter := deletion.NewDeleter(objStore, log, deletion.WithMetrics(m))
	coordinator := deletion.NewCoordinator(objStore, deleter, log, m)

	// Initialize repositories and services
	parentRepo := postgres.NewParentPostgres(db)
	orphanRepo := postgres.NewOrphanPostgres(db)
	deps := service.Deps{
		Store:   objStore,
		Parents: parentRepo,
		Orphans: orphanRepo,
		Batch:   coordinator,
		Logger:  log,
		Metrics: m,
	}

	reviewPolicy := policy.ReviewPolicy().WithOverrides(cfg.Review)
	applicationPolicy := policy.ApplicationPolicy().WithOverrides(cfg.Application)

	reviewSvc := service.NewSubmissionService(model.KindReview, reviewPolicy, deps)
	applicationSvc := service.NewSubmissionService(model.KindApplication, applicationPolicy, deps)
	orphanSvc := service.NewOrphanService(orphanRepo, coordinator, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit(reviewPolicy, applicationPolicy),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, reviewSvc, applicationSvc, orphanSvc)

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

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		// Flush buffered spans before the process exits.
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	// Listen returns as soon as shutdown begins; wait for the rest of it.
	<-shutdownDone
}

// bodyLimit sizes the request body cap to the largest submission any policy accepts.
func bodyLimit(policies ...policy.Policy) int {
	var limit int64
	for _, p := range policies {
		total := p.MaxTotalSize
		if total <= 0 {
			total = int64(p.MaxCount) * p.MaxSizePerFile
		}
		limit = max(limit, total)
	}
	return int(limit) + formSlack
}
