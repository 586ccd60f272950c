package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/queue"
)

var activityEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_activity_events_total",
	Help: "Activity events handed to the event stream, by outcome.",
}, []string{"outcome"})

// ActivityPublisher forwards committed activities to downstream consumers.
type ActivityPublisher interface {
	Publish(ctx context.Context, orgID, actorID int64, activities []model.Activity)
}

type queuePublisher struct {
	producer queue.Producer
}

func NewActivityPublisher(producer queue.Producer) ActivityPublisher {
	return &queuePublisher{producer: producer}
}

// Publish never fails the caller: the activity is already committed.
func (p *queuePublisher) Publish(ctx context.Context, orgID, actorID int64, activities []model.Activity) {
	traceID := logger.TraceIDFromContext(ctx)
	for _, a := range activities {
		err := p.producer.Enqueue(ctx, queue.ActivityEvent{
			ActivityID:     a.ID,
			IssueID:        a.IssueID,
			OrganizationID: orgID,
			ActorID:        actorID,
			Action:         string(a.Action),
			Field:          a.Field,
			OldValue:       a.OldValue,
			NewValue:       a.NewValue,
			OccurredAt:     a.CreatedAt,
			TraceID:        traceID,
			Attempt:        1,
		})
		if err != nil {
			activityEventsTotal.WithLabelValues("failed").Inc()
			slog.WarnContext(ctx, "failed to publish activity event",
				"error", err,
				"activity_id", a.ID,
				"issue_id", a.IssueID)
			continue
		}
		activityEventsTotal.WithLabelValues("published").Inc()
	}
}
