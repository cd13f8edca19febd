package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"video-player/internal/logging"
	"video-player/internal/metrics"
	"video-player/internal/session"
)

const (
	// broadcastBuffer bounds snapshots queued between Publish and Run.
	broadcastBuffer = 64
	// clientBuffer bounds messages queued for one slow client.
	clientBuffer = 16
)

// Message is the envelope of everything sent over the websocket.
type Message struct {
	Type     string            `json:"type"`
	ClientID string            `json:"clientId,omitempty"`
	Now      string            `json:"now"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
}

// Hub owns the connected clients and fans session snapshots out to them.
// It implements session.Notifier.
type Hub struct {
	// Registered clients, owned by Run.
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	latest  []byte
	count   int
	stopped bool
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			logging.Debug("Websocket client %s connected (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				logging.Debug("Websocket client %s disconnected (%d total)", client.id, len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.WebsocketMessagesTotal.WithLabelValues("sent").Inc()
				default:
					metrics.WebsocketMessagesTotal.WithLabelValues("dropped").Inc()
					logging.Warn("Websocket client %s is not keeping up, disconnecting", client.id)
					h.drop(client)
				}
			}

		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			h.mu.Unlock()
			for client := range h.clients {
				h.drop(client)
			}
			close(h.done)
			return
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	_ = client.conn.Close()
	h.setCount(len(h.clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
	metrics.WebsocketClients.Set(float64(n))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Publish queues a snapshot for every client and keeps it for clients that
// connect later. It never blocks; when the queue is full the snapshot is
// dropped, since a newer one supersedes it.
func (h *Hub) Publish(snap session.Snapshot) {
	data, err := json.Marshal(Message{
		Type:     "snapshot",
		Now:      time.Now().UTC().Format(time.RFC3339Nano),
		Snapshot: &snap,
	})
	if err != nil {
		logging.Error("Failed to encode session snapshot: %v", err)
		return
	}

	h.mu.Lock()
	h.latest = data
	stopped := h.stopped
	h.mu.Unlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- data:
	default:
		metrics.WebsocketMessagesTotal.WithLabelValues("dropped").Inc()
		logging.Debug("Snapshot queue full, dropping version %d", snap.Version)
	}
}

// Latest returns the most recent encoded snapshot message, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}
