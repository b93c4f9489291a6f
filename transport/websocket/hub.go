package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrClientBufferFull   = errors.New("client send buffer is full")
)

// Hub keeps the connection registry and the per-room subscriber sets, and
// fans room events out to every subscribed connection. It implements the
// coordinator's Broadcaster interface.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a freshly upgraded connection to the registry.
func (that *Hub) Register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.ID] = client
}

// Unregister removes the connection from the registry and every room set,
// and closes its send channel, which stops the write pump.
func (that *Hub) Unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client.ID]; !ok {
		return
	}

	delete(that.clients, client.ID)

	for roomID, subscribers := range that.rooms {
		delete(subscribers, client.ID)
		if len(subscribers) == 0 {
			delete(that.rooms, roomID)
		}
	}

	close(client.send)
}

// Join subscribes a registered connection to a room's channel.
func (that *Hub) Join(roomID, connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	client, ok := that.clients[connectionID]
	if !ok {
		return
	}

	if that.rooms[roomID] == nil {
		that.rooms[roomID] = make(map[string]*Client)
	}

	that.rooms[roomID][connectionID] = client
}

// Leave unsubscribes a connection from a room's channel.
func (that *Hub) Leave(roomID, connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	subscribers, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(subscribers, connectionID)
	if len(subscribers) == 0 {
		delete(that.rooms, roomID)
	}
}

// Publish delivers a payload to every connection currently subscribed to the
// room. Delivery per room is FIFO: publishes happen under the coordinator's
// mutex and each client drains one ordered send queue.
func (that *Hub) Publish(roomID, action string, payload any) {
	message, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal broadcast", "roomID", roomID, "action", action, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.rooms[roomID] {
		if !client.enqueue(message) {
			that.logger.Warn("dropping broadcast for slow client", "roomID", roomID, "connectionID", client.ID)
		}
	}
}

// Notify delivers a payload to exactly one connection.
func (that *Hub) Notify(connectionID, action string, payload any) error {
	message, err := marshalMessage(action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	client, ok := that.clients[connectionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, connectionID)
	}

	if !client.enqueue(message) {
		return fmt.Errorf("%w: %s", ErrClientBufferFull, connectionID)
	}

	return nil
}

// DropRoom forgets a room's subscriber set after the room is gone from the
// store. The connections themselves stay registered.
func (that *Hub) DropRoom(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, roomID)
}
