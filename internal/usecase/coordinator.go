package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charles1986-star/gameroom-backend/internal/apperror"
	"github.com/charles1986-star/gameroom-backend/internal/entity"
	"github.com/charles1986-star/gameroom-backend/internal/repository"
	"github.com/charles1986-star/gameroom-backend/internal/tictactoe"
)

// Actions pushed by the coordinator to every connection subscribed to a room.
const (
	ActionRoomUpdated  = "room-updated"
	ActionMatchUpdated = "match-updated"
	ActionMatchEnded   = "match-ended"
	ActionRoomClosed   = "room-closed"
)

// RoomPayload is the full room snapshot: players, board, turn, status.
type RoomPayload struct {
	Room *entity.Room `json:"room"`
}

// MatchPayload is the incremental update after a non-terminal move.
type MatchPayload struct {
	RoomID string       `json:"roomId"`
	Board  entity.Board `json:"board"`
	Turn   string       `json:"turn"`
}

// MatchEndedPayload carries the final board and the winning mark, or
// entity.WinnerTie when the board filled without a winner.
type MatchEndedPayload struct {
	RoomID string       `json:"roomId"`
	Winner string       `json:"winner"`
	Board  entity.Board `json:"board"`
}

// Broadcaster fans payloads out to the connections subscribed to a room's
// channel. Implemented by the websocket hub.
type Broadcaster interface {
	Join(roomID, connectionID string)
	Leave(roomID, connectionID string)
	Publish(roomID, action string, payload any)
	DropRoom(roomID string)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	DeleteByID(ctx context.Context, id string) error
}

// RoomCoordinator owns the room store and drives every room state
// transition. A single mutex serializes all transitions, which restores the
// atomicity the reference design gets from its single-threaded event loop:
// no two events ever interleave their mutations of the same room.
type RoomCoordinator struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms *repository.RoomStore

	players     playerRepo
	broadcaster Broadcaster
	scheduler   Scheduler

	grace time.Duration
}

func NewRoomCoordinator(
	logger *slog.Logger,
	rooms *repository.RoomStore,
	players repository.PlayerRepository,
	broadcaster Broadcaster,
	scheduler Scheduler,
	grace time.Duration,
) *RoomCoordinator {
	return &RoomCoordinator{
		logger: logger,

		rooms: rooms,

		players:     players,
		broadcaster: broadcaster,
		scheduler:   scheduler,

		grace: grace,
	}
}

// CreateRoom creates a fresh room with the creator in the first seat. An
// empty roomID gets a generated identifier; a caller-supplied identifier
// that is already live fails with ErrRoomExists.
func (that *RoomCoordinator) CreateRoom(ctx context.Context, roomID, displayName, connectionID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if roomID == "" {
		roomID = that.freshRoomID()
	} else if _, ok := that.rooms.Get(roomID); ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomExists, roomID)
	}

	room := entity.NewRoom(roomID)

	player := &entity.Player{ID: connectionID, Name: displayName}
	room.Seat(player)

	that.rooms.Put(room)

	that.broadcaster.Join(room.ID, connectionID)
	that.broadcaster.Publish(room.ID, ActionRoomUpdated, RoomPayload{Room: room})

	that.savePlayerSession(ctx, player)

	that.logger.Info("room created", "roomID", room.ID, "player", displayName)

	return room, nil
}

// JoinRoom takes the second seat. Fails with ErrRoomNotFound for a room
// that no longer exists and ErrRoomFull once both seats are taken; both are
// reported to the requesting connection only.
func (that *RoomCoordinator) JoinRoom(ctx context.Context, roomID, displayName, connectionID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if room.IsFull() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomFull, roomID)
	}

	player := &entity.Player{ID: connectionID, Name: displayName}
	room.Seat(player)
	room.Status = entity.StatusPlaying

	that.broadcaster.Join(room.ID, connectionID)
	that.broadcaster.Publish(room.ID, ActionRoomUpdated, RoomPayload{Room: room})

	that.savePlayerSession(ctx, player)

	that.logger.Info("player joined room", "roomID", room.ID, "player", displayName)

	return room, nil
}

// MakeTurn applies one move. Every invalid input - unknown room, room not in
// play, wrong turn, occupied cell - is a deliberate no-op: nothing changes
// and nothing is broadcast. The returned error exists for transport-side
// debug logging only and is never reported to the client.
func (that *RoomCoordinator) MakeTurn(_ context.Context, roomID string, cell int, mark string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms.Get(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if !room.IsPlaying() {
		return fmt.Errorf("%w: %s", apperror.ErrRoomNotPlaying, room.Status)
	}

	if room.Turn != mark {
		return fmt.Errorf("%w: %s moved on %s's turn", apperror.ErrNotYourTurn, mark, room.Turn)
	}

	board, result, err := tictactoe.Apply(room.Board, mark, cell)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	room.Board = board

	if result == "" {
		room.Turn = tictactoe.ToggleMark(mark)
		that.broadcaster.Publish(room.ID, ActionMatchUpdated, MatchPayload{
			RoomID: room.ID,
			Board:  room.Board,
			Turn:   room.Turn,
		})

		return nil
	}

	room.Status = entity.StatusEnded
	room.Winner = result
	room.Turn = ""

	that.broadcaster.Publish(room.ID, ActionMatchEnded, MatchEndedPayload{
		RoomID: room.ID,
		Winner: result,
		Board:  room.Board,
	})

	that.scheduleCleanup(room)

	that.logger.Info("match ended", "roomID", room.ID, "winner", result)

	return nil
}

// Disconnect removes the connection from every room it is seated in. A room
// that empties is deleted immediately; otherwise the remaining player is
// returned to waiting for a new opponent and the match result, if any, is
// discarded rather than awarded.
func (that *RoomCoordinator) Disconnect(ctx context.Context, connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, room := range that.rooms.All() {
		if !room.RemovePlayer(connectionID) {
			continue
		}

		that.broadcaster.Leave(room.ID, connectionID)

		if room.IsEmpty() {
			that.rooms.Delete(room.ID)
			that.broadcaster.DropRoom(room.ID)

			that.logger.Info("room emptied and deleted", "roomID", room.ID)

			continue
		}

		room.Status = entity.StatusWaiting
		that.broadcaster.Publish(room.ID, ActionRoomUpdated, RoomPayload{Room: room})

		that.logger.Info("player left room", "roomID", room.ID, "connectionID", connectionID)
	}

	if err := that.players.DeleteByID(ctx, connectionID); err != nil {
		that.logger.Warn("failed to clear player session", "connectionID", connectionID, "error", err)
	}
}

// RoomCount reports the number of live rooms.
func (that *RoomCoordinator) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms.Len()
}

// scheduleCleanup registers the one-shot deferred deletion of an ended room.
// The timer is never cancelled or refreshed; the callback instead checks
// that the identifier still houses the same room instance, so a room deleted
// early and re-created under the same identifier survives the stale timer.
func (that *RoomCoordinator) scheduleCleanup(room *entity.Room) {
	roomID := room.ID

	that.scheduler.Schedule(that.grace, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		current, ok := that.rooms.Get(roomID)
		if !ok || current != room {
			return
		}

		that.rooms.Delete(roomID)
		that.broadcaster.Publish(roomID, ActionRoomClosed, struct{}{})
		that.broadcaster.DropRoom(roomID)

		that.logger.Info("room reclaimed", "roomID", roomID)
	})
}

func (that *RoomCoordinator) freshRoomID() string {
	for {
		id := uuid.NewString()
		if _, ok := that.rooms.Get(id); !ok {
			return id
		}
	}
}

// savePlayerSession records the seat in the session registry. Bookkeeping
// only: a registry failure never fails the room operation, because live
// matches are served from process memory alone.
func (that *RoomCoordinator) savePlayerSession(ctx context.Context, player *entity.Player) {
	if err := that.players.CreateOrUpdate(ctx, player); err != nil {
		that.logger.Warn("failed to save player session", "connectionID", player.ID, "error", err)
	}
}
