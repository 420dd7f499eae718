package websocket

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync/atomic"

	"wishboard/internal/utils"

	"go.uber.org/zap"
)

type Client struct {
	hub  *Hub
	conn ClientConn
	send chan []byte
	ID   string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub broadcasts every event of the bus to every connected client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	eventBus   *utils.EventBus
	connected  atomic.Int64
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, eventBus *utils.EventBus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		clients:    make(map[*Client]bool),
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.eventBus.SubscribeCh()
	defer cancel()
	defer close(h.stopped)

	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connected.Store(int64(len(h.clients)))
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(event)
		}
	}
}

func (h *Hub) broadcast(event utils.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", event.Event, "error", err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			h.logger.Warnw("Client too slow, dropping", "client_id", client.ID)
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.connected.Store(int64(len(h.clients)))
}
