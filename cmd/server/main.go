package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"altis.app/tracker/common/id"
	"altis.app/tracker/common/logger"
	"altis.app/tracker/common/otel"
	"altis.app/tracker/core/config"
	"altis.app/tracker/core/db"
	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/http/middleware"
	httprouter "altis.app/tracker/internal/http/router"
	"altis.app/tracker/internal/queue"
	"altis.app/tracker/internal/service"
	"altis.app/tracker/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	if cfg.Sentry.Enabled() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Env,
			Release:     cfg.OTel.ServiceVersion,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to initialize sentry", "error", err)
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
		slog.InfoContext(ctx, "sentry initialized")
	}

	slog.InfoContext(ctx, "tracker starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.AutoMigrate {
		if err := database.MigrateUp(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Redis is optional: without it rate limits are per-process and activities are not streamed.
	var redisClient *redis.Client
	producer := queue.NewNoopProducer()
	if cfg.ActivityQueue.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.ActivityQueue.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient = redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.ActivityQueue.Stream)

		producer = queue.NewRedisProducer(redisClient, cfg.ActivityQueue.Stream, slog.Default())
	}
	defer producer.Close()

	limiterStore, err := middleware.NewLimiterStore(redisClient, "tracker:ratelimit")
	if err != nil {
		slog.ErrorContext(ctx, "failed to create rate limiter store", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Queries())
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	services := service.NewServices(stores, service.NewTxRunner(database), tokens, service.NewActivityPublisher(producer))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, limiterStore, database)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, limiterStore limiter.Store, database *db.DB) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		IsProduction: cfg.IsProduction(),
		FrontendURL:  cfg.FrontendURL,
		AdminAPIKey:  cfg.AdminAPIKey,
		LimiterStore: limiterStore,
		GeneralRate:  limiter.Rate{Period: cfg.RateLimit.Window, Limit: cfg.RateLimit.Max},
		AuthRate:     limiter.Rate{Period: cfg.RateLimit.Window, Limit: cfg.RateLimit.AuthMax},
		DB:           database,
	})

	return router
}

const banner = `
 _                  _
| |_ _ __ __ _  ___| | _____ _ __
| __| '__/ _' |/ __| |/ / _ \ '__|
| |_| | | (_| | (__|   <  __/ |
 \__|_|  \__,_|\___|_|\_\___|_|
`
