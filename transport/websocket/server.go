package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/charles1986-star/gameroom-backend/internal/entity"
)

type coordinator interface {
	CreateRoom(ctx context.Context, roomID, displayName, connectionID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, displayName, connectionID string) (*entity.Room, error)
	MakeTurn(ctx context.Context, roomID string, cell int, mark string) error
	Disconnect(ctx context.Context, connectionID string)
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	hub         *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, client *Client, payload json.RawMessage) error
}

func New(logger *slog.Logger, coordinator coordinator, hub *Hub) *Server {
	server := &Server{
		logger:      logger,
		coordinator: coordinator,
		hub:         hub,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *Client, json.RawMessage) error),
	}

	server.handlers[actionCreate] = server.handleCreate
	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionMove] = server.handleMove

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the request and runs the connection until the
// peer goes away, then feeds the disconnect transition.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn)
	that.hub.Register(client)

	go client.writePump()

	log.Info("WebSocket connection established", "connectionID", client.ID)

	that.readLoop(ctx, client)

	that.coordinator.Disconnect(ctx, client.ID)
	that.hub.Unregister(client)

	log.Info("WebSocket connection closed", "connectionID", client.ID)
}

// readLoop processes inbound messages in arrival order. One message is fully
// handled before the next read, so events from the same connection never
// overtake each other.
func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop", "connectionID", client.ID)

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, client, message.Payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) send(client *Client, action string, payload any) error {
	return that.hub.Notify(client.ID, action, payload)
}

func (that *Server) sendError(client *Client, message string) error {
	return that.send(client, actionRoomError, ErrorPayload{Message: message})
}
