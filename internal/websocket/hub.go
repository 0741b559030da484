package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"slack-service/internal/events"
)

// subscription pairs a client with a feed key it wants to start or stop watching.
type subscription struct {
	client *Client
	key    string
	add    bool
}

// Hub fans invalidation events out to connected clients. Events arrive on the
// Redis pub/sub channel that the service layer publishes to, so every server
// instance sees every invalidation regardless of which instance handled the
// originating write.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients watching each feed key
	keyClients map[string]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Subscription changes from clients
	subscriptions chan subscription

	// Redis connection backing the pub/sub subscription
	redis *redis.Client

	pubsub *redis.PubSub

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:       make(map[*Client]bool),
		keyClients:    make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscriptions: make(chan subscription),
		redis:         redisClient,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (h *Hub) Run() {
	h.pubsub = h.redis.Subscribe(h.ctx, events.PubSubChannel)
	go h.consumeInvalidations()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sub := <-h.subscriptions:
			h.applySubscription(sub)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	slog.Info("Client registered", "clientID", client.id, "userID", client.userID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	for key := range client.keys {
		if watchers := h.keyClients[key]; watchers != nil {
			delete(watchers, client)
			if len(watchers) == 0 {
				delete(h.keyClients, key)
			}
		}
	}

	client.closeSend()
	slog.Info("Client unregistered", "clientID", client.id, "userID", client.userID)
}

func (h *Hub) applySubscription(sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[sub.client]; !ok {
		return
	}

	if sub.add {
		if h.keyClients[sub.key] == nil {
			h.keyClients[sub.key] = make(map[*Client]bool)
		}
		h.keyClients[sub.key][sub.client] = true
		sub.client.addKey(sub.key)
	} else {
		if watchers := h.keyClients[sub.key]; watchers != nil {
			delete(watchers, sub.client)
			if len(watchers) == 0 {
				delete(h.keyClients, sub.key)
			}
		}
		sub.client.removeKey(sub.key)
	}
}

// consumeInvalidations relays Redis pub/sub messages to every client watching
// one of the event's feed keys. Each client receives at most one copy even
// when it watches several of the keys.
func (h *Hub) consumeInvalidations() {
	ch := h.pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	var event events.Invalidation
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Error("Failed to unmarshal invalidation", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := make(map[*Client]bool)
	for _, key := range event.FeedKeys {
		for client := range h.keyClients[key] {
			if delivered[client] {
				continue
			}
			delivered[client] = true

			select {
			case client.send <- payload:
			default:
				// Slow consumer, drop the event rather than block the hub.
				slog.Warn("Dropping invalidation for slow client", "clientID", client.id)
			}
		}
	}
}
