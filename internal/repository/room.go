package repository

import (
	"github.com/charles1986-star/gameroom-backend/internal/entity"
)

// RoomStore holds every live room. Process memory is the system of record
// for matches, so this is a plain map with no persistence behind it.
//
// The store is deliberately not synchronized: the session coordinator owns
// it exclusively and serializes every access under its own mutex.
type RoomStore struct {
	rooms map[string]*entity.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*entity.Room),
	}
}

// Get returns the room and whether it exists. Absence is not an error:
// callers treat it as "room no longer exists".
func (that *RoomStore) Get(id string) (*entity.Room, bool) {
	room, ok := that.rooms[id]
	return room, ok
}

func (that *RoomStore) Put(room *entity.Room) {
	that.rooms[room.ID] = room
}

func (that *RoomStore) Delete(id string) {
	delete(that.rooms, id)
}

// All returns every live room; the disconnect transition scans these to find
// the seats a connection holds.
func (that *RoomStore) All() []*entity.Room {
	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

func (that *RoomStore) Len() int {
	return len(that.rooms)
}
