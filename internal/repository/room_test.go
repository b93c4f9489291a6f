package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charles1986-star/gameroom-backend/internal/entity"
)

func TestRoomStore(t *testing.T) {
	t.Run("Get reports absence for an unknown id", func(t *testing.T) {
		store := NewRoomStore()

		_, ok := store.Get("r1")

		assert.False(t, ok)
	})

	t.Run("Put then Get returns the same instance", func(t *testing.T) {
		store := NewRoomStore()
		room := entity.NewRoom("r1")

		store.Put(room)

		got, ok := store.Get("r1")
		require.True(t, ok)
		assert.Same(t, room, got)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Delete removes the room", func(t *testing.T) {
		store := NewRoomStore()
		store.Put(entity.NewRoom("r1"))

		store.Delete("r1")

		_, ok := store.Get("r1")
		assert.False(t, ok)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("All returns every live room", func(t *testing.T) {
		store := NewRoomStore()
		store.Put(entity.NewRoom("r1"))
		store.Put(entity.NewRoom("r2"))

		rooms := store.All()

		require.Len(t, rooms, 2)

		ids := []string{rooms[0].ID, rooms[1].ID}
		assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
	})
}
