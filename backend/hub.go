package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	closed    bool
	broadcast chan wsMessage
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan wsMessage, 64),
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a message for every client. It never blocks the caller;
// when the queue is full the message is dropped.
func (h *Hub) Publish(msgType string, payload any) {
	select {
	case h.broadcast <- wsMessage{Type: msgType, Payload: mustMarshal(payload)}:
	default:
		log.Warn().Str("type", msgType).Msg("hub queue full, dropping message")
	}
}

// Register adds c to the hub. After shutdown c's send channel is closed
// straight away so its writer exits.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	h.clients[c] = struct{}{}
}

// SendTo queues msg for a single client. It reports false when c is no
// longer registered, in which case its send channel may already be closed.
func (h *Hub) SendTo(c *Client, msg wsMessage) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	c.sendJSON(msg)
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// sendJSON must be called with the hub lock held.
func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
