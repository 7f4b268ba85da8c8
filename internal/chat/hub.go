// Package chat fans chat document snapshots out to live subscribers.
//
// Every write publishes the whole document; subscribers replace their copy.
// A slow subscriber only ever needs the newest snapshot, so delivery keeps
// the latest and drops stale ones.
package chat

import (
	"context"
	"sync"

	"github.com/lalith-99/almoftah/internal/models"
)

// Hub publishes chat snapshots and hands out subscriptions.
type Hub interface {
	Publish(ctx context.Context, c *models.Chat) error

	// Subscribe returns a channel of snapshots for chatID. The cancel func
	// releases the subscription and closes the channel.
	Subscribe(ctx context.Context, chatID string) (<-chan *models.Chat, func(), error)
}

// subscriberBuffer is small on purpose: only the newest snapshot matters.
const subscriberBuffer = 4

// deliver sends c without blocking. When the buffer is full the oldest
// pending snapshot is discarded.
func deliver(ch chan *models.Chat, c *models.Chat) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// LocalHub is an in-process Hub. It serves single-instance deployments
// without Redis and tests.
type LocalHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *models.Chat]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[string]map[chan *models.Chat]struct{})}
}

func (h *LocalHub) Publish(_ context.Context, c *models.Chat) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[c.ID] {
		deliver(ch, c)
	}
	return nil
}

func (h *LocalHub) Subscribe(_ context.Context, chatID string) (<-chan *models.Chat, func(), error) {
	ch := make(chan *models.Chat, subscriberBuffer)

	h.mu.Lock()
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[chan *models.Chat]struct{})
	}
	h.subs[chatID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[chatID], ch)
			if len(h.subs[chatID]) == 0 {
				delete(h.subs, chatID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers reports how many live subscriptions chatID has.
func (h *LocalHub) Subscribers(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[chatID])
}

var (
	_ Hub = (*LocalHub)(nil)
	_ Hub = (*RedisHub)(nil)
)
