package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/queue"
	"altis.app/tracker/internal/webhook"
)

const DefaultMaxAttempts = 3

const (
	outcomeDelivered    = "delivered"
	outcomeRequeued     = "requeued"
	outcomeCircuitOpen  = "circuit_open"
	outcomeDeadLettered = "dead_lettered"
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_webhook_deliveries_total",
	Help: "Activity webhook deliveries by outcome.",
}, []string{"outcome"})

type Config struct {
	MaxAttempts int
	// ErrorBackoff is the pause after a failed stream read.
	ErrorBackoff time.Duration
	// RetryDelay is the pause before a failed delivery goes back on the stream.
	RetryDelay time.Duration
	// CircuitOpenBackoff is the pause before the next read once the webhook
	// circuit is open. It should cover the breaker timeout.
	CircuitOpenBackoff time.Duration
}

// Worker delivers activity events from the stream to the webhook endpoint.
type Worker struct {
	consumer Consumer
	emitter  webhook.Emitter
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, emitter webhook.Emitter, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.CircuitOpenBackoff <= 0 {
		cfg.CircuitOpenBackoff = webhook.DefaultBreakerTimeout
	}
	return &Worker{
		consumer:  consumer,
		emitter:   emitter,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tracker.worker.delivery",
	})
	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			circuitOpen, err := w.processOneBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				w.pause(ctx, w.cfg.ErrorBackoff)
				continue
			}
			if circuitOpen {
				slog.WarnContext(ctx, "webhook circuit open, pausing reads",
					"backoff", w.cfg.CircuitOpenBackoff)
				w.pause(ctx, w.cfg.CircuitOpenBackoff)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) pause(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	case <-w.stopCh:
	}
}

// processOneBatch reports whether any delivery in the batch hit an open circuit.
func (w *Worker) processOneBatch(ctx context.Context) (bool, error) {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("reading from stream: %w", err)
	}

	circuitOpen := false
	for _, msg := range messages {
		if w.handle(ctx, msg) == outcomeCircuitOpen {
			circuitOpen = true
		}
	}
	return circuitOpen, nil
}

// Handle delivers msg and settles it: ack on success, requeue or dead-letter on failure.
// The pending sweeper settles stale messages through it too.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) {
	w.handle(ctx, msg)
}

func (w *Worker) handle(ctx context.Context, msg queue.Message) string {
	msgID := msg.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID:      &msgID,
		IssueID:        &msg.Event.IssueID,
		OrganizationID: &msg.Event.OrganizationID,
	})

	if err := w.deliverSafe(ctx, msg); err != nil {
		slog.WarnContext(ctx, "activity delivery failed",
			"error", err,
			"activity_id", msg.Event.ActivityID,
			"attempt", msg.Attempt)
		return w.handleFailedMessage(ctx, msg, err)
	}

	deliveries.WithLabelValues(outcomeDelivered).Inc()
	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The sweeper will pick it up again; deliveries are idempotent per activity id.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}
	return outcomeDelivered
}

func (w *Worker) deliverSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in activity delivery", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	start := time.Now()
	ev := msg.Event
	ev.Attempt = msg.Attempt
	if err := w.emitter.Emit(ctx, ev); err != nil {
		return err
	}

	slog.InfoContext(ctx, "activity delivered",
		"activity_id", ev.ActivityID,
		"action", ev.Action,
		"attempt", msg.Attempt,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) string {
	// The endpoint was never called, so the attempt is not spent.
	if errors.Is(err, webhook.ErrCircuitOpen) {
		deliveries.WithLabelValues(outcomeCircuitOpen).Inc()
		slog.WarnContext(ctx, "circuit open, requeuing activity without spending an attempt",
			"activity_id", msg.Event.ActivityID,
			"attempt", msg.Attempt)
		w.requeue(ctx, msg, queue.Retry{Attempt: msg.Attempt, Reason: err.Error()})
		return outcomeCircuitOpen
	}

	if webhook.IsPermanent(err) || msg.Attempt >= w.cfg.MaxAttempts {
		deliveries.WithLabelValues(outcomeDeadLettered).Inc()
		slog.ErrorContext(ctx, "giving up on activity, sending to DLQ",
			"activity_id", msg.Event.ActivityID,
			"attempts", msg.Attempt,
			"permanent", webhook.IsPermanent(err))
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return outcomeDeadLettered
	}

	deliveries.WithLabelValues(outcomeRequeued).Inc()
	slog.WarnContext(ctx, "requeuing activity",
		"activity_id", msg.Event.ActivityID,
		"attempt", msg.Attempt)
	w.requeue(ctx, msg, queue.Retry{Attempt: msg.Attempt + 1, Delay: w.cfg.RetryDelay, Reason: err.Error()})
	return outcomeRequeued
}

func (w *Worker) requeue(ctx context.Context, msg queue.Message, retry queue.Retry) {
	if err := w.consumer.Requeue(ctx, msg, retry); err != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", err)
	}
}
