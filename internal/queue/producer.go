package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActivityEvent is one activity log entry as it travels through the stream.
type ActivityEvent struct {
	ActivityID     int64
	IssueID        int64
	OrganizationID int64
	ActorID        int64
	Action         string
	Field          *string
	OldValue       *string
	NewValue       *string
	OccurredAt     time.Time
	TraceID        string
	Attempt        int
}

type Producer interface {
	Enqueue(ctx context.Context, ev ActivityEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, ev ActivityEvent) error {
	if ev.Attempt <= 0 {
		ev.Attempt = 1
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: eventValues(ev),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue activity: %w", err)
	}

	p.logger.DebugContext(ctx, "enqueued activity event",
		"activity_id", ev.ActivityID,
		"issue_id", ev.IssueID,
		"action", ev.Action)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

type noopProducer struct{}

// NewNoopProducer returns a Producer that drops every event. Used when no Redis is configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Enqueue(context.Context, ActivityEvent) error { return nil }

func (noopProducer) Close() error { return nil }

func eventValues(ev ActivityEvent) map[string]any {
	values := map[string]any{
		"activity_id":     ev.ActivityID,
		"issue_id":        ev.IssueID,
		"organization_id": ev.OrganizationID,
		"actor_id":        ev.ActorID,
		"action":          ev.Action,
		"occurred_at":     ev.OccurredAt.UTC().Format(time.RFC3339Nano),
		"attempt":         ev.Attempt,
	}
	if ev.Field != nil {
		values["field"] = *ev.Field
	}
	if ev.OldValue != nil {
		values["old_value"] = *ev.OldValue
	}
	if ev.NewValue != nil {
		values["new_value"] = *ev.NewValue
	}
	if ev.TraceID != "" {
		values["trace_id"] = ev.TraceID
	}
	return values
}
