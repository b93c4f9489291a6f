package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/charles1986-star/gameroom-backend/internal/entity"
)

// Client-to-server actions.
const (
	actionCreate = "create"
	actionJoin   = "join"
	actionMove   = "move"
)

// Direct-reply actions; room-wide actions live with the coordinator that
// publishes them.
const (
	actionRoomCreated = "room-created"
	actionRoomJoined  = "room-joined"
	actionRoomError   = "room-error"
)

// Wire messages for protocol violations with a direct reply.
const (
	errRoomNotFound = "Room not found"
	errRoomFull     = "Room full"
	errRoomExists   = "Room already exists"
)

// Message is the envelope every frame carries in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreatePayload struct {
	RoomID      string `json:"roomId,omitempty"`
	DisplayName string `json:"displayName"`
}

type JoinPayload struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
}

type MovePayload struct {
	RoomID    string `json:"roomId"`
	CellIndex int    `json:"cellIndex"`
	Symbol    string `json:"symbol"`
}

type RoomPayload struct {
	RoomID string       `json:"roomId"`
	Room   *entity.Room `json:"room"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func marshalMessage(action string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	messageBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return messageBytes, nil
}
