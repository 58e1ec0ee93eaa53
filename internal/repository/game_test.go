package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFactory func(t *testing.T) (context.Context, GameRepository)

func backends() map[string]repoFactory {
	return map[string]repoFactory{
		"redis": func(t *testing.T) (context.Context, GameRepository) {
			ctx, st := suite.New(t)
			return ctx, NewGameRepository(st.Storage)
		},
		"memory": func(_ *testing.T) (context.Context, GameRepository) {
			return context.Background(), NewMemoryGameRepository()
		},
	}
}

func newStoredGame() *entity.Game {
	game := entity.NewGame("123", entity.BotMode, true, time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC))
	game.Board[1][1] = entity.Cross
	game.Board[0][0] = entity.Circle
	game.TurnCounter = 2

	return game
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	for name, newRepo := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a game in progress
			game := newStoredGame()

			// When: CreateOrUpdate is called twice with a move in between
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
			require.NoError(t, game.MakeTurn(2, 2))
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// Then: the latest state is stored
			stored, err := gameRepo.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, stored.TurnCounter)
			assert.Equal(t, entity.Cross, stored.Board[2][2])
		})
	}
}

func TestGameRepository_GetByID(t *testing.T) {
	for name, newRepo := range backends() {
		t.Run(name+"/Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a stored game
			game := newStoredGame()
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// When: GetByID is called with existing ID
			retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

			// Then: the retrieved game matches the saved game
			require.NoError(t, err)
			assert.Equal(t, game.ID, retrievedGame.ID)
			assert.Equal(t, game.Board, retrievedGame.Board)
			assert.Equal(t, game.Mode, retrievedGame.Mode)
			assert.Equal(t, game.BotFirst, retrievedGame.BotFirst)
			assert.Equal(t, game.TurnCounter, retrievedGame.TurnCounter)
			assert.True(t, game.StartedAt.Equal(retrievedGame.StartedAt))
		})

		t.Run(name+"/Returned game is a copy", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a stored game
			game := newStoredGame()
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// When: the retrieved game is changed without saving
			retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
			require.NoError(t, err)
			retrievedGame.Board[2][2] = entity.Circle

			// Then: the stored game is unchanged
			again, err := gameRepo.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.Empty, again.Board[2][2])
		})

		t.Run(name+"/NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: GetByID is called with non-existent ID
			retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
			assert.Nil(t, retrievedGame)
		})
	}
}

func TestGameRepository_DeleteByID(t *testing.T) {
	for name, newRepo := range backends() {
		t.Run(name+"/Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a stored game
			game := newStoredGame()
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// When: DeleteByID is called with existing ID
			err := gameRepo.DeleteByID(ctx, game.ID)

			// Then: no error is returned and the game is gone
			require.NoError(t, err)

			_, err = gameRepo.GetByID(ctx, game.ID)
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		})

		t.Run(name+"/NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: DeleteByID is called with non-existent ID
			err := gameRepo.DeleteByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		})
	}
}
