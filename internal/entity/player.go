package entity

// Player is one seated participant. ID is the identifier of the underlying
// live connection; Name is a client-supplied label, neither validated nor unique.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mark   string `json:"mark,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}
