// Package sse streams login-attempt lifecycle events to subscribed clients.
package sse

import (
	"sync"
	"time"
)

// Event is one attempt lifecycle notification.
type Event struct {
	AccountID string    `json:"accountId"`
	State     string    `json:"state"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// Client is one connected event stream. AccountID empty means the client
// receives events for every account.
type Client struct {
	ClientID  string
	AccountID string
	Events    chan *Event

	closeOnce sync.Once
}

// NewClient creates a client with a buffered event channel.
func NewClient(clientID, accountID string) *Client {
	return &Client{
		ClientID:  clientID,
		AccountID: accountID,
		Events:    make(chan *Event, 32),
	}
}

// Close closes the event channel exactly once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Events)
	})
}

// Hub manages SSE clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers the event to every client subscribed to its account.
// A client with a full channel misses the event rather than blocking the
// attempt that produced it.
func (h *Hub) Publish(accountID, state, message string) {
	event := &Event{
		AccountID: accountID,
		State:     state,
		Message:   message,
		At:        time.Now().UTC(),
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.AccountID != "" && c.AccountID != accountID {
			continue
		}
		trySend(c, event)
	}
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *Client, event *Event) bool {
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}
