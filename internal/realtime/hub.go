// Package realtime fans story events out to every connected websocket client.
//
// The hub is the single publisher-side endpoint: the story service publishes
// into it and every open connection receives every event, in publish order.
// Delivery is best effort. A client whose queue is full is disconnected and
// misses the event; it recovers by refetching the story list.
package realtime

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"whispermap/internal/logging"
	"whispermap/internal/metrics"
	"whispermap/internal/story"
)

const (
	EventNewStory      = "new-story"
	EventStoryReaction = "story-reaction"
	EventPing          = "ping"
	EventPong          = "pong"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 64
)

// Message is the frame written to clients.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	broadcast chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan []byte, broadcastBuffer),
	}
}

// Serve delivers queued broadcasts until ctx is done, then closes every client.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n := h.ClientCount()
			h.closeAll()
			logging.Info().Str("component", "realtime-hub").Int("clients_closed", n).Msg("realtime hub stopped")
			return ctx.Err()
		case frame := <-h.broadcast:
			h.fanOut(frame)
		}
	}
}

func (h *Hub) String() string { return "realtime-hub" }

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.RealtimeClients.Set(float64(n))
	logging.Debug().Uint64("client", c.id).Int("total_clients", n).Msg("realtime client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.RealtimeClients.Set(float64(n))
	logging.Debug().Uint64("client", c.id).Int("total_clients", n).Msg("realtime client disconnected")
}

// sendTo queues a frame for one client, dropping it if the client is gone or full.
func (h *Hub) sendTo(c *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// fanOut sends frame to every client in connection order. Clients whose
// queue is full are removed.
func (h *Hub) fanOut(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	var slow []*Client
	for _, c := range clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c)
		close(c.send)
		metrics.RealtimeDropped.WithLabelValues("client_full").Inc()
		logging.Warn().Uint64("client", c.id).Msg("dropping slow realtime client")
	}
	if len(slow) > 0 {
		metrics.RealtimeClients.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.RealtimeClients.Set(0)
}

// Publish queues an event for every client. It never blocks the caller.
func (h *Hub) Publish(kind string, data any) {
	frame, err := encode(kind, data)
	if err != nil {
		logging.Error().Err(err).Str("kind", kind).Msg("encode realtime event")
		return
	}

	select {
	case h.broadcast <- frame:
		metrics.RealtimeEvents.WithLabelValues(kind).Inc()
	default:
		metrics.RealtimeDropped.WithLabelValues("hub_full").Inc()
		logging.Warn().Str("kind", kind).Msg("broadcast channel full, dropping event")
	}
}

func (h *Hub) PublishNewStory(v story.View) {
	h.Publish(EventNewStory, v)
}

func (h *Hub) PublishReaction(st story.ReactionState) {
	h.Publish(EventStoryReaction, st)
}

func encode(kind string, data any) ([]byte, error) {
	msg := Message{Type: kind}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
