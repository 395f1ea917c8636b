package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"routine-advisor-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "advisor_events"

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetProfileID string          `json:"target_profile_id"`
	Message         json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients map: ProfileID -> List of Clients (several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	// closed once Run returns; late register/unregister calls give up instead of blocking
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil when running alone
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ProfileID] = append(h.clients[client.ProfileID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"profile_id": client.ProfileID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register hands the client to Run. It reports false when the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister hands the client to Run for removal; it returns immediately once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.ProfileID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.ProfileID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.ProfileID]) == 0 {
		delete(h.clients, client.ProfileID)
		h.logger.Info("Hub", "Profile has no live clients", map[string]interface{}{"profile_id": client.ProfileID})
	}
}

// Connected reports how many local clients a profile has open.
func (h *Hub) Connected(profileID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[profileID])
}

// Send pushes payload to every local client of the profile and, when redis is configured,
// to the other instances.
func (h *Hub) Send(profileID uuid.UUID, payload []byte) {
	h.deliverLocal(profileID, payload)

	if h.rdb == nil {
		return
	}
	data, _ := json.Marshal(clusterMessage{
		Origin:          h.instanceID,
		TargetProfileID: profileID.String(),
		Message:         payload,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, data).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish to cluster channel", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) deliverLocal(profileID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[profileID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"profile_id": profileID})
			// Run owns the map; hand the removal over without holding the lock
			go h.Unregister(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		profileID, err := uuid.Parse(payload.TargetProfileID)
		if err != nil {
			continue
		}
		h.deliverLocal(profileID, payload.Message)
	}
}
