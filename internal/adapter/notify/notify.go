// Package notify delivers post-commit lifecycle events. The default wiring
// logs each event and parks failed deliveries on a redis list so an external
// dispatcher can drain them later.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"amanah-mortgage-backend/internal/domain/ports"
)

var (
	_ ports.NotificationService = (*LogNotifier)(nil)
	_ ports.NotificationService = (*RetryQueue)(nil)
)

// LogNotifier writes the event to the structured log. It stands in for the
// real channel integrations (SMS/email) which are operated out of process.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, recipient string, ev ports.Event) error {
	n.log.Info("notification dispatched",
		zap.String("event", ev.Name),
		zap.String("subject", ev.Subject),
		zap.String("recipient", recipient),
		zap.Any("fields", ev.Fields),
	)
	return nil
}

const retryQueueKey = "notifications:retry"

type queuedEvent struct {
	Recipient string      `json:"recipient"`
	Event     ports.Event `json:"event"`
}

// RetryQueue wraps another notifier and pushes failed deliveries onto a redis
// list for at-least-once redelivery. A push failure is reported to the caller,
// who logs it; the state transition has already committed either way.
type RetryQueue struct {
	next ports.NotificationService
	rdb  *redis.Client
	log  *zap.Logger
}

func NewRetryQueue(next ports.NotificationService, rdb *redis.Client, log *zap.Logger) *RetryQueue {
	return &RetryQueue{next: next, rdb: rdb, log: log}
}

func (q *RetryQueue) Notify(ctx context.Context, recipient string, ev ports.Event) error {
	err := q.next.Notify(ctx, recipient, ev)
	if err == nil {
		return nil
	}
	q.log.Warn("notification delivery failed, queueing for retry",
		zap.String("event", ev.Name),
		zap.String("subject", ev.Subject),
		zap.Error(err),
	)
	payload, merr := json.Marshal(queuedEvent{Recipient: recipient, Event: ev})
	if merr != nil {
		return fmt.Errorf("marshal queued event: %w", merr)
	}
	if perr := q.rdb.LPush(ctx, retryQueueKey, payload).Err(); perr != nil {
		return fmt.Errorf("queue notification for retry: %w", perr)
	}
	return nil
}

// Drain pops up to limit queued events and re-attempts delivery. Events that
// fail again are pushed back.
func (q *RetryQueue) Drain(ctx context.Context, limit int) (int, error) {
	delivered := 0
	for i := 0; i < limit; i++ {
		raw, err := q.rdb.RPop(ctx, retryQueueKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return delivered, fmt.Errorf("pop queued notification: %w", err)
		}
		var qe queuedEvent
		if err := json.Unmarshal([]byte(raw), &qe); err != nil {
			q.log.Error("dropping malformed queued notification", zap.Error(err))
			continue
		}
		if err := q.next.Notify(ctx, qe.Recipient, qe.Event); err != nil {
			if perr := q.rdb.LPush(ctx, retryQueueKey, raw).Err(); perr != nil {
				return delivered, fmt.Errorf("requeue notification: %w", perr)
			}
			return delivered, nil
		}
		delivered++
	}
	return delivered, nil
}
