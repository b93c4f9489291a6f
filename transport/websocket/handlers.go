package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charles1986-star/gameroom-backend/internal/apperror"
)

func (that *Server) handleCreate(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreate", "connectionID", client.ID)

	var payloadReq CreatePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.coordinator.CreateRoom(ctx, payloadReq.RoomID, payloadReq.DisplayName, client.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrRoomExists) {
			return that.sendError(client, errRoomExists)
		}

		log.Error("failed to create room", "error", err)

		return fmt.Errorf("failed to create room: %w", err)
	}

	return that.send(client, actionRoomCreated, RoomPayload{RoomID: room.ID, Room: room})
}

func (that *Server) handleJoin(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoin", "connectionID", client.ID)

	var payloadReq JoinPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.coordinator.JoinRoom(ctx, payloadReq.RoomID, payloadReq.DisplayName, client.ID)

	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return that.sendError(client, errRoomNotFound)
	case errors.Is(err, apperror.ErrRoomFull):
		return that.sendError(client, errRoomFull)
	case err != nil:
		log.Error("failed to join room", "roomID", payloadReq.RoomID, "error", err)

		return fmt.Errorf("failed to join room: %w", err)
	}

	return that.send(client, actionRoomJoined, RoomPayload{RoomID: room.ID, Room: room})
}

// handleMove never reports failures back: an invalid move is a silent no-op
// and the client only ever learns board state from the room broadcasts.
func (that *Server) handleMove(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleMove", "connectionID", client.ID)

	var payloadReq MovePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.coordinator.MakeTurn(ctx, payloadReq.RoomID, payloadReq.CellIndex, payloadReq.Symbol); err != nil {
		log.Debug("move dropped", "roomID", payloadReq.RoomID, "cell", payloadReq.CellIndex, "error", err)
	}

	return nil
}
