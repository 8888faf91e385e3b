package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/repositorytest"
)

func TestGameRepository(t *testing.T) {
	repositorytest.GameRepository(t, func(_ *testing.T) (context.Context, repository.GameRepository) {
		return context.Background(), memory.NewGameRepository()
	})
}

func TestPlayerRepository(t *testing.T) {
	repositorytest.PlayerRepository(t, func(_ *testing.T) (context.Context, repository.PlayerRepository) {
		return context.Background(), memory.NewPlayerRepository()
	})
}

func TestGameRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	gameRepo := memory.NewGameRepository()

	// Given: a stored game
	game := entity.NewGame("game-1", entity.ModePVP, time.Now())
	require.NoError(t, gameRepo.Create(ctx, game))

	// When: both the original and a loaded copy are changed
	game.Board.Set(1, 1, entity.X)
	loaded, err := gameRepo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	loaded.Board.Set(2, 2, entity.O)

	// Then: the stored game is untouched
	stored, err := gameRepo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewBoard(), stored.Board)
}

func TestGameRepository_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()
	gameRepo := memory.NewGameRepository()

	game := entity.NewGame("game-1", entity.ModePVP, time.Now())
	require.NoError(t, gameRepo.Create(ctx, game))

	// When: many writers store the first move of the same game at once
	const writers = 50

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stored   int
		rejected int
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			next := game.Clone()
			next.MoveCount = 1
			err := gameRepo.UpdateWithMove(ctx, next, entity.Move{MoveNumber: 1})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stored++
			case errors.Is(err, apperror.ErrConcurrentMove):
				rejected++
			}
		}()
	}
	wg.Wait()

	// Then: exactly one move is recorded
	assert.Equal(t, 1, stored)
	assert.Equal(t, writers-1, rejected)

	moves, err := gameRepo.ListMoves(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, moves, 1)
}
