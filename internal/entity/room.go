package entity

const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusEnded   = "ended"

	MarkX = "X"
	MarkO = "O"

	// WinnerTie is the wire value reported when the board fills without a winner.
	WinnerTie = "tie"

	EmptyCell = ""

	BoardSize  = 9
	MaxPlayers = 2
)

// Board is the 3x3 grid in row-major order; a cell holds MarkX, MarkO or EmptyCell.
type Board [BoardSize]string

// Room is one live two-party match. It only ever lives in process memory
// and is mutated exclusively by the session coordinator.
type Room struct {
	ID      string    `json:"roomId"`
	Players []*Player `json:"players"`
	Board   Board     `json:"board"`
	Turn    string    `json:"turn"`
	Status  string    `json:"status"`
	Winner  string    `json:"winner,omitempty"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Players: []*Player{},
		Turn:    MarkX,
		Status:  StatusWaiting,
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsEnded() bool {
	return that.Status == StatusEnded
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// Seat adds a player to the next free seat. The first seat gets MarkX,
// the second MarkO; seat order never changes afterwards.
func (that *Room) Seat(player *Player) {
	if len(that.Players) == 0 {
		player.Mark = MarkX
	} else {
		player.Mark = MarkO
	}

	player.RoomID = that.ID
	that.Players = append(that.Players, player)
}

// RemovePlayer drops the player owning the given connection and reports
// whether anyone was removed.
func (that *Room) RemovePlayer(connectionID string) bool {
	for i, player := range that.Players {
		if player.ID != connectionID {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		return true
	}

	return false
}

// HasPlayer reports whether the given connection occupies a seat.
func (that *Room) HasPlayer(connectionID string) bool {
	for _, player := range that.Players {
		if player.ID == connectionID {
			return true
		}
	}

	return false
}
