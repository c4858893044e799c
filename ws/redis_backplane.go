package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"gigmarket_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBackplane разносит события комнат через Redis pub/sub,
// чтобы сокеты на разных инстансах видели одни и те же комнаты.
type RedisBackplane struct {
	client  *redis.Client
	channel string
}

func NewRedisBackplane(client *redis.Client, channel string) *RedisBackplane {
	return &RedisBackplane{client: client, channel: channel}
}

func (b *RedisBackplane) Publish(ctx context.Context, ev RoomEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode room event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBackplane) Subscribe(ctx context.Context, handle func(RoomEvent)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// ждем подтверждения подписки
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logger.Info("ws: backplane subscribed", "channel", b.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("ws: bad backplane payload", "error", err)
				continue
			}
			handle(ev)
		}
	}
}
