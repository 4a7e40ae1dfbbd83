package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"codeconnect/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// Publisher appends notification events to the outbox queue. The reward and
// challenge flows only produce events; the notification worker turns them
// into stored notification rows.
type Publisher interface {
	Publish(ctx context.Context, event *model.NotificationEvent) error
}

type redisPublisher struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisPublisher(rdb *redis.Client, queueName string) Publisher {
	return &redisPublisher{rdb: rdb, queueName: queueName}
}

func (p *redisPublisher) Publish(ctx context.Context, event *model.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redisPublisher.Publish marshal: %w", err)
	}
	if err := p.rdb.LPush(ctx, p.queueName, payload).Err(); err != nil {
		return fmt.Errorf("redisPublisher.Publish lpush: %w", err)
	}
	return nil
}
