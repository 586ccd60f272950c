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

	"github.com/redis/go-redis/v9"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/common/otel"
	"altis.app/tracker/core/config"
	"altis.app/tracker/internal/queue"
	"altis.app/tracker/internal/webhook"
	"altis.app/tracker/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "tracker worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.ActivityQueue.Group,
		"consumer_name", cfg.ActivityQueue.Consumer)

	redisOpts, err := redis.ParseURL(cfg.ActivityQueue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.ActivityQueue.Stream)

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.ActivityQueue.Stream,
		Group:        cfg.ActivityQueue.Group,
		Consumer:     cfg.ActivityQueue.Consumer,
		DLQStream:    cfg.ActivityQueue.DLQStream,
		BatchSize: 10,
		Block:     5 * time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	emitter := webhook.NewHTTPEmitter(cfg.Webhook.URL,
		webhook.WithClient(&http.Client{Timeout: cfg.Webhook.Timeout}),
		webhook.WithSecret(cfg.Webhook.Secret),
	)

	w := worker.New(consumer, emitter, worker.Config{
		MaxAttempts:        worker.DefaultMaxAttempts,
		RetryDelay:         time.Second,
		CircuitOpenBackoff: webhook.DefaultBreakerTimeout,
	})

	sweeper := worker.NewPendingSweeper(consumer, w.Handle, worker.SweeperConfig{
		MinIdle:   5 * time.Minute,
		Interval:  time.Minute,
		MaxClaims: 10,
	})
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		_ = sweeper.Run(sweepCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()

	slog.InfoContext(ctx, "worker initialized and running", "webhook_url", cfg.Webhook.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stopSweeper()
	<-sweeperDone
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 _                  _                                   _
| |_ _ __ __ _  ___| | _____ _ __  __      _____  _ __| | _____ _ __
| __| '__/ _' |/ __| |/ / _ \ '__| \ \ /\ / / _ \| '__| |/ / _ \ '__|
| |_| | | (_| | (__|   <  __/ |     \ V  V / (_) | |  |   <  __/ |
 \__|_|  \__,_|\___|_|\_\___|_|      \_/\_/ \___/|_|  |_|\_\___|_|
`
