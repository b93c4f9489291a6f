package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charles1986-star/gameroom-backend/internal/entity"
	"github.com/charles1986-star/gameroom-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a seated player session
	player := &entity.Player{
		ID:     "conn-1",
		Name:   "Alice",
		Mark:   entity.MarkX,
		RoomID: "r1",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a stored player session
		player := &entity.Player{
			ID:     "conn-1",
			Name:   "Alice",
			Mark:   entity.MarkX,
			RoomID: "r1",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		require.Equal(t, player.ID, retrieved.ID)
		require.Equal(t, player.Name, retrieved.Name)
		require.Equal(t, player.Mark, retrieved.Mark)
		require.Equal(t, player.RoomID, retrieved.RoomID)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := playerRepo.GetByID(ctx, "conn-404")

		// Then: an ErrPlayerNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrPlayerNotFound, err)
		assert.Empty(t, retrieved.ID)
	})
}

func TestPlayerRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a stored player session
	player := &entity.Player{ID: "conn-1", Name: "Alice"}

	err := playerRepo.CreateOrUpdate(ctx, player)
	require.NoError(t, err)

	// When: DeleteByID is called
	err = playerRepo.DeleteByID(ctx, player.ID)

	// Then: the session is gone
	require.NoError(t, err)

	_, err = playerRepo.GetByID(ctx, player.ID)
	require.Error(t, err)
	assert.Equal(t, ErrPlayerNotFound, err)
}
