package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"ayopashop/internal/config"
	"ayopashop/internal/database"
	"ayopashop/internal/database/fixture"
	"ayopashop/internal/http/handler"
	"ayopashop/internal/http/middleware"
	"ayopashop/internal/logging"
	tracing "ayopashop/internal/otel"
	"ayopashop/internal/repository/mysql"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	policy, err := database.ParseExecPolicy(cfg.Database.ExecPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid DB_EXEC_POLICY")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dbMetrics, err := database.NewMetrics(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register database metrics")
	}

	db := database.NewManager(cfg.Database,
		database.WithLogger(logger),
		database.WithMetrics(dbMetrics),
		database.WithExecPolicy(policy),
	)
	if err := db.Connect(ctx); err != nil {
		logger.Fatal().Err(err).Str("target", database.ConnectionURL(cfg.Database)).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect database")
		}
	}()

	if cfg.FixtureSeed {
		if cfg.Database.Driver != database.DriverMySQL {
			logger.Warn().Str("driver", cfg.Database.Driver).Msg("fixture seeding needs the mysql driver; skipping")
		} else if err := fixture.EnsureSeeded(ctx, db, mysql.NewProductMySQL(db), logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed fixture table")
		}
	}

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(httpMetrics.Handler())

	handler.RegisterRoutes(app, db, reg)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("exec_policy", policy.String()).Msg("listening")
	if err := app.Listen(addr); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
}
