package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
)

const (
	sendBufferSize   = 32
	notifyBufferSize = 1024
)

// Client is one websocket session of a user.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// NewClient creates a session bound to userID.
func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

type userMessage struct {
	UserID  uint
	Message []byte
}

// Hub fans user-scoped notifications out to every open session of that user.
type Hub struct {
	// UserID -> sessions, one per device
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	notify     chan *userMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		notify:     make(chan *userMessage, notifyBufferSize),
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.notify:
			h.deliver(msg)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = kept
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(kept),
	})
}

func (h *Hub) deliver(msg *userMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[msg.UserID] {
		select {
		case client.Send <- msg.Message:
		default:
			// slow session; drop it rather than stall the hub
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": msg.UserID,
			})
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// NotifyUser queues message for every session of userID. It never blocks:
// when the queue is full the message is dropped.
func (h *Hub) NotifyUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal notification", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	select {
	case h.notify <- &userMessage{UserID: userID, Message: data}:
	default:
		logger.Warn("Notification queue full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
	}
	return nil
}

// Register queues a new session
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether userID has at least one open session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
