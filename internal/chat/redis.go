package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lalith-99/almoftah/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelName is the Redis pub/sub channel for one chat document.
func ChannelName(chatID string) string {
	return "chat:" + chatID
}

// RedisHub fans snapshots out through Redis pub/sub, so a websocket on any
// server instance sees writes made on any other.
type RedisHub struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisHub(rdb *redis.Client, logger *zap.Logger) *RedisHub {
	return &RedisHub{rdb: rdb, logger: logger}
}

func (h *RedisHub) Publish(ctx context.Context, c *models.Chat) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode chat: %w", err)
	}
	if err := h.rdb.Publish(ctx, ChannelName(c.ID), data).Err(); err != nil {
		return fmt.Errorf("publish chat: %w", err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, chatID string) (<-chan *models.Chat, func(), error) {
	ps := h.rdb.Subscribe(ctx, ChannelName(chatID))

	// Wait for the subscription confirmation so a publish right after
	// Subscribe returns is not missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe chat: %w", err)
	}

	out := make(chan *models.Chat, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var c models.Chat
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					h.logger.Warn("dropping malformed chat snapshot",
						zap.String("chat_id", chatID),
						zap.Error(err),
					)
					continue
				}
				deliver(out, &c)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}
	return out, cancel, nil
}
