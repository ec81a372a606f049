package realtime

import (
	"context"
	"encoding/json"
	"sync"

	redislib "github.com/redis/go-redis/v9"

	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/metrics"
	redisclient "github.com/mrbebidas/catalog-backend/pkg/redis"
)

// Hub relays catalog change events from Redis to subscribed HTTP clients.
type Hub struct {
	client  *redisclient.Client
	channel string
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics

	mtx     sync.Mutex
	clients map[chan ChangeEvent]struct{}
}

// NewHub builds the relay for the given channel.
func NewHub(client *redisclient.Client, channel string, logg *logger.Logger, m *metrics.CatalogMetrics) *Hub {
	return &Hub{
		client:  client,
		channel: channel,
		logg:    logg,
		metrics: m,
		clients: make(map[chan ChangeEvent]struct{}),
	}
}

// Run consumes the Redis channel until the context is canceled, fanning
// each event out to every attached client.
func (h *Hub) Run(ctx context.Context) error {
	sub, err := h.client.Subscribe(ctx, h.channel)
	if err != nil {
		return err
	}
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.broadcast(decodeEvent(msg))
		}
	}
}

func decodeEvent(msg *redislib.Message) ChangeEvent {
	event := ChangeEvent{Kind: "unknown"}
	if msg == nil {
		return event
	}
	// tolerate bare-string payloads from manual publishes
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		event.Kind = msg.Payload
	}
	return event
}

// Attach registers a client and returns its event channel plus a detach
// function. Slow clients drop events rather than block the hub.
func (h *Hub) Attach() (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, 8)

	h.mtx.Lock()
	h.clients[ch] = struct{}{}
	h.mtx.Unlock()
	h.metrics.SSEClientConnected()

	detach := func() {
		h.mtx.Lock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
		h.mtx.Unlock()
		h.metrics.SSEClientDisconnected()
	}
	return ch, detach
}

func (h *Hub) broadcast(event ChangeEvent) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount reports the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return len(h.clients)
}
