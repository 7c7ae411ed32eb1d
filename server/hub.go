package server

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Message types pushed to pages.
const (
	MessageTypeOption = "option"
)

// ServerMessage is the envelope written to every websocket client.
type ServerMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans rendered chart options out to connected pages.
type Hub struct {
	clients   map[*wsClient]bool
	clientsMu sync.RWMutex

	broadcast  chan ServerMessage
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan ServerMessage, 16),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast requests until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

func (h *Hub) Register(c *wsClient) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *wsClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// PublishChart queues the chart's option for every client. It never blocks;
// when the queue is full the update is dropped.
func (h *Hub) PublishChart(chart *LinkedChart) {
	msg := ServerMessage{
		Type:      MessageTypeOption,
		Payload:   chart.Option,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast buffer full, dropping chart update")
	}
}

func (h *Hub) registerClient(c *wsClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = true
	h.logger.Debug("websocket client connected", slog.String("client", c.ID), slog.Int("total", len(h.clients)))
}

func (h *Hub) unregisterClient(c *wsClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Debug("websocket client disconnected", slog.String("client", c.ID), slog.Int("total", len(h.clients)))
	}
}

func (h *Hub) broadcastMessage(msg ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(msg) {
			h.logger.Warn("websocket client too slow, disconnecting", slog.String("client", c.ID))
			go h.Unregister(c)
		}
	}
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}
