package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"altis.app/tracker/common/logger"
	"github.com/redis/go-redis/v9"
)

type ConsumerConfig struct {
	Stream    string        // Redis stream name
	Group     string        // Redis consumer group name
	Consumer  string        // Redis consumer name
	DLQStream string        // Dead letter queue stream for failed messages
	BatchSize int64         // Number of messages to process per batch
	Block     time.Duration // How long to block/poll for new messages
}

// Retry describes the copy Requeue puts back on the stream.
type Retry struct {
	Attempt int           // attempt number carried by the copy
	Delay   time.Duration // pause before the copy is appended
	Reason  string
}

type Message struct {
	ID      string
	Event   ActivityEvent
	Attempt int
	Raw     redis.XMessage
}

// MessageProcessor processes a queue message.
type MessageProcessor func(ctx context.Context, msg Message) error

type RedisConsumer struct {
	client *redis.Client
	cfg    ConsumerConfig
}

func NewRedisConsumer(ctx context.Context, client *redis.Client, cfg ConsumerConfig) (*RedisConsumer, error) {
	consumer := &RedisConsumer{
		client: client,
		cfg:    cfg,
	}

	if err := consumer.ensureGroup(ctx); err != nil {
		return nil, err
	}

	return consumer, nil
}

func (c *RedisConsumer) ensureGroup(ctx context.Context) error {
	// Start from "0" so a recreated group still sees events already in the stream.
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

func (c *RedisConsumer) Read(ctx context.Context) ([]Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tracker.queue.consumer",
	})

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		// ">" only delivers messages never handed to this group; stale pending ones are claimed by ClaimStale.
		Streams: []string{c.cfg.Stream, ">"},
		Count:   c.cfg.BatchSize,
		Block:   c.cfg.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("reading from stream: %w", err)
	}

	var messages []Message
	for _, stream := range streams {
		messages = append(messages, c.parseBatch(ctx, stream.Messages)...)
	}

	if len(messages) > 0 {
		slog.DebugContext(ctx, "read messages from stream",
			"count", len(messages),
			"stream", c.cfg.Stream,
			"consumer", c.cfg.Consumer)
	}

	return messages, nil
}

// StartCursor begins a ClaimStale scan at the head of the pending list.
const StartCursor = "0-0"

// ClaimStale moves up to BatchSize entries idle for at least minIdle to this
// consumer, scanning the pending list from cursor. The returned cursor resumes
// the scan and is StartCursor once the whole list has been covered.
func (c *RedisConsumer) ClaimStale(ctx context.Context, cursor string, minIdle time.Duration) ([]Message, string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tracker.queue.consumer",
	})

	raw, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		MinIdle:  minIdle,
		Start:    cursor,
		Count:    c.cfg.BatchSize,
	}).Result()
	if err != nil {
		return nil, cursor, fmt.Errorf("xautoclaim (stream=%s): %w", c.cfg.Stream, err)
	}

	if len(raw) > 0 {
		slog.InfoContext(ctx, "claimed stale pending messages",
			"count", len(raw),
			"min_idle", minIdle,
			"next_cursor", next)
	}
	return c.parseBatch(ctx, raw), next, nil
}

// parseBatch acks entries that cannot be parsed so they are not redelivered forever.
func (c *RedisConsumer) parseBatch(ctx context.Context, raw []redis.XMessage) []Message {
	messages := make([]Message, 0, len(raw))
	for _, msg := range raw {
		parsed, parseErr := ParseMessage(msg)
		if parseErr != nil {
			slog.ErrorContext(ctx, "failed to parse message",
				"error", parseErr,
				"raw_message_id", msg.ID,
				"stream", c.cfg.Stream)
			_ = c.Ack(ctx, Message{ID: msg.ID, Raw: msg})
			continue
		}
		messages = append(messages, parsed)
	}
	return messages
}

func (c *RedisConsumer) Ack(ctx context.Context, msg Message) error {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack (stream=%s): %w", c.cfg.Stream, err)
	}
	return nil
}

// Requeue acks msg and appends a copy carrying retry.Attempt.
func (c *RedisConsumer) Requeue(ctx context.Context, msg Message, retry Retry) error {
	if err := c.Ack(ctx, msg); err != nil {
		return fmt.Errorf("acking failed message for requeue: %w", err)
	}

	ev := msg.Event
	ev.Attempt = max(retry.Attempt, 1)
	values := eventValues(ev)
	if retry.Reason != "" {
		values["last_error"] = retry.Reason
	}

	if retry.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Delay):
		}
	}

	if err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.Stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd requeue: %w", err)
	}

	slog.InfoContext(ctx, "message requeued for retry",
		"next_attempt", ev.Attempt,
		"reason", retry.Reason)
	return nil
}

func (c *RedisConsumer) SendDLQ(ctx context.Context, msg Message, errMsg string) error {
	if err := c.Ack(ctx, msg); err != nil {
		return fmt.Errorf("acking failed message for dlq: %w", err)
	}

	ev := msg.Event
	ev.Attempt = msg.Attempt
	values := eventValues(ev)
	values["error"] = errMsg

	if err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.DLQStream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd dlq (stream=%s): %w", c.cfg.DLQStream, err)
	}

	slog.ErrorContext(ctx, "message sent to DLQ",
		"final_error", errMsg,
		"dlq_stream", c.cfg.DLQStream)
	return nil
}

func ParseMessage(msg redis.XMessage) (Message, error) {
	activityID, err := parseInt64(msg.Values, "activity_id")
	if err != nil {
		return Message{}, err
	}
	issueID, err := parseInt64(msg.Values, "issue_id")
	if err != nil {
		return Message{}, err
	}
	orgID, err := parseInt64(msg.Values, "organization_id")
	if err != nil {
		return Message{}, err
	}
	actorID, err := parseOptionalInt64(msg.Values, "actor_id")
	if err != nil {
		return Message{}, err
	}
	action, err := parseString(msg.Values, "action")
	if err != nil {
		return Message{}, err
	}
	attempt, err := parseOptionalInt(msg.Values, "attempt")
	if err != nil {
		return Message{}, err
	}
	if attempt <= 0 {
		attempt = 1
	}

	ev := ActivityEvent{
		ActivityID:     activityID,
		IssueID:        issueID,
		OrganizationID: orgID,
		ActorID:        actorID,
		Action:         action,
		Field:          parseOptionalString(msg.Values, "field"),
		OldValue:       parseOptionalString(msg.Values, "old_value"),
		NewValue:       parseOptionalString(msg.Values, "new_value"),
		Attempt:        attempt,
	}
	if traceID := parseOptionalString(msg.Values, "trace_id"); traceID != nil {
		ev.TraceID = *traceID
	}
	if occurred := parseOptionalString(msg.Values, "occurred_at"); occurred != nil {
		t, err := time.Parse(time.RFC3339Nano, *occurred)
		if err != nil {
			return Message{}, fmt.Errorf("parsing occurred_at: %w", err)
		}
		ev.OccurredAt = t
	}

	return Message{
		ID:      msg.ID,
		Event:   ev,
		Attempt: attempt,
		Raw:     msg,
	}, nil
}

func parseInt64(values map[string]any, key string) (int64, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	num, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalInt64(values map[string]any, key string) (int64, error) {
	if _, ok := values[key]; !ok {
		return 0, nil
	}
	return parseInt64(values, key)
}

func parseOptionalInt(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	num, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func parseOptionalString(values map[string]any, key string) *string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	s := fmt.Sprint(raw)
	return &s
}
