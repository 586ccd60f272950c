package worker

import (
	"context"
	"log/slog"
	"time"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/queue"
)

// StaleClaimer takes over messages a consumer read but never settled.
type StaleClaimer interface {
	ClaimStale(ctx context.Context, cursor string, minIdle time.Duration) ([]queue.Message, string, error)
}

var _ StaleClaimer = (*queue.RedisConsumer)(nil)

type SweeperConfig struct {
	// MinIdle is how long a message must sit unacked before it is claimed.
	MinIdle  time.Duration
	Interval time.Duration
	// MaxClaims caps the ClaimStale calls of one sweep.
	MaxClaims int
}

// PendingSweeper settles messages left pending by a worker that died between
// reading and acking them. Claimed messages go through the same handler as
// fresh ones, so their attempt count and DLQ routing are unchanged.
type PendingSweeper struct {
	claimer StaleClaimer
	handle  func(ctx context.Context, msg queue.Message)
	cfg     SweeperConfig
	cursor  string
}

func NewPendingSweeper(claimer StaleClaimer, handle func(ctx context.Context, msg queue.Message), cfg SweeperConfig) *PendingSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.MinIdle <= 0 {
		cfg.MinIdle = 5 * time.Minute
	}
	if cfg.MaxClaims <= 0 {
		cfg.MaxClaims = 10
	}
	return &PendingSweeper{
		claimer: claimer,
		handle:  handle,
		cfg:     cfg,
		cursor:  queue.StartCursor,
	}
}

// Run sweeps every Interval until ctx is done.
func (s *PendingSweeper) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tracker.worker.sweeper",
	})
	slog.InfoContext(ctx, "pending sweeper started",
		"interval", s.cfg.Interval,
		"min_idle", s.cfg.MinIdle)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "pending sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "pending sweep failed", "error", err)
			}
		}
	}
}

// Sweep claims and handles stale messages until the pending list has been
// scanned to its end or MaxClaims calls were made. A sweep cut short resumes
// where it stopped on the next call. It returns the number of messages handled.
func (s *PendingSweeper) Sweep(ctx context.Context) (int, error) {
	handled := 0
	for range s.cfg.MaxClaims {
		messages, next, err := s.claimer.ClaimStale(ctx, s.cursor, s.cfg.MinIdle)
		if err != nil {
			return handled, err
		}
		for _, msg := range messages {
			s.handle(ctx, msg)
			handled++
		}
		s.cursor = next
		if next == queue.StartCursor {
			break
		}
	}
	return handled, nil
}
