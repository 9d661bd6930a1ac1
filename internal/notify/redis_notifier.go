package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"salon-chat/internal/events"
	"salon-chat/pkg/logger"
)

const unreadKeyPrefix = "notifications:unread:"

// Pusher delivers a payload to every live connection of a user. Satisfied by
// the websocket hub.
type Pusher interface {
	BroadcastToUser(userID string, payload []byte)
}

// RedisNotifier keeps per-user unread counters in redis and pushes the event
// to the user's private channel. Push failures are best-effort: a user with
// no live connection simply reconciles via the unread-count endpoint later.
type RedisNotifier struct {
	client *goredis.Client
	pusher Pusher
	log    *logger.Logger
}

func NewRedisNotifier(client *goredis.Client, pusher Pusher, log *logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, pusher: pusher, log: log}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID uuid.UUID, event Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := n.client.Incr(ctx, unreadKeyPrefix+userID.String()).Err(); err != nil {
		return err
	}

	env, err := events.NewEnvelope(events.EventTypeNotificationCreated, events.AggregateTypeNotification, userID.String(), event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	if n.pusher != nil {
		n.pusher.BroadcastToUser(userID.String(), payload)
	}
	return nil
}

func (n *RedisNotifier) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := n.client.Get(ctx, unreadKeyPrefix+userID.String()).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
