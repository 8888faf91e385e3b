// Package repositorytest holds behavior checks every repository implementation must pass.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type GameRepositoryFactory func(t *testing.T) (context.Context, repository.GameRepository)

type PlayerRepositoryFactory func(t *testing.T) (context.Context, repository.PlayerRepository)

var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newGame(id string, createdAt time.Time) *entity.Game {
	game := entity.NewGame(id, entity.ModePVP, createdAt)
	game.PlayerX = "alice"
	return game
}

func completedGame(id string, createdAt, completedAt time.Time, winner entity.Winner) *entity.Game {
	game := newGame(id, createdAt)
	game.PlayerO = "bob"
	game.Complete(winner, completedAt)
	return game
}

func ids(games []*entity.Game) []string {
	result := make([]string, len(games))
	for i, game := range games {
		result[i] = game.ID
	}
	return result
}

func GameRepository(t *testing.T, newRepo GameRepositoryFactory) {
	t.Helper()

	t.Run("Create_Success", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a new game with metadata
		game := newGame("game-1", baseTime)
		game.Metadata = map[string]any{"room": "lobby"}

		// When: Create is called
		err := repo.Create(ctx, game)

		// Then: the game can be read back
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.ID, stored.ID)
		assert.Equal(t, entity.StatusPending, stored.Status)
		assert.Equal(t, entity.NewBoard(), stored.Board)
		assert.Equal(t, entity.X, stored.CurrentTurn)
		assert.Equal(t, entity.NoWinner, stored.Winner)
		assert.Equal(t, "alice", stored.PlayerX)
		assert.Equal(t, "lobby", stored.Metadata["room"])
		assert.True(t, game.CreatedAt.Equal(stored.CreatedAt))
		assert.Nil(t, stored.CompletedAt)
	})

	t.Run("Create_Duplicate", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		require.NoError(t, repo.Create(ctx, newGame("game-1", baseTime)))

		// When: Create is called again with the same id
		err := repo.Create(ctx, newGame("game-1", baseTime.Add(time.Minute)))

		// Then: ErrGameAlreadyExists is returned
		require.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
	})

	t.Run("CreateOrUpdate_Overwrites", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		game := newGame("game-1", baseTime)
		require.NoError(t, repo.Create(ctx, game))

		// When: it is abandoned and saved again
		game.Status = entity.StatusAbandoned
		game.UpdatedAt = baseTime.Add(time.Minute)
		err := repo.CreateOrUpdate(ctx, game)

		// Then: the stored copy reflects the change
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusAbandoned, stored.Status)
		assert.True(t, game.UpdatedAt.Equal(stored.UpdatedAt))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// When: GetByID is called with an unknown id
		_, err := repo.GetByID(ctx, "missing")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game with a move
		game := newGame("game-1", baseTime)
		require.NoError(t, repo.Create(ctx, game))

		game.Board.Set(1, 1, entity.X)
		game.MoveCount = 1
		require.NoError(t, repo.UpdateWithMove(ctx, game, entity.Move{
			MoveNumber: 1, PlayerID: "alice", Mark: entity.X, Row: 1, Column: 1, Timestamp: baseTime,
		}))

		// When: DeleteByID is called
		err := repo.DeleteByID(ctx, game.ID)

		// Then: the game and its moves are gone
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		moves, err := repo.ListMoves(ctx, game.ID)
		require.NoError(t, err)
		assert.Empty(t, moves)

		games, total, err := repo.List(ctx, entity.GameFilter{}, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, games)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// When: DeleteByID is called with an unknown id
		err := repo.DeleteByID(ctx, "missing")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("UpdateWithMove_AppendsInOrder", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a stored game
		game := newGame("game-1", baseTime)
		require.NoError(t, repo.Create(ctx, game))

		// When: two moves are stored
		first := entity.Move{MoveNumber: 1, PlayerID: "alice", Mark: entity.X, Row: 2, Column: 2, Timestamp: baseTime}
		game.Board.Set(2, 2, entity.X)
		game.MoveCount = 1
		game.CurrentTurn = entity.O
		require.NoError(t, repo.UpdateWithMove(ctx, game, first))

		second := entity.Move{MoveNumber: 2, PlayerID: "bob", Mark: entity.O, Row: 1, Column: 3, Timestamp: baseTime.Add(time.Second)}
		game.Board.Set(1, 3, entity.O)
		game.MoveCount = 2
		game.CurrentTurn = entity.X
		require.NoError(t, repo.UpdateWithMove(ctx, game, second))

		// Then: the history lists them in order and the board matches the replay
		moves, err := repo.ListMoves(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, moves, 2)
		assert.Equal(t, 1, moves[0].MoveNumber)
		assert.Equal(t, entity.X, moves[0].Mark)
		assert.Equal(t, 2, moves[1].MoveNumber)
		assert.Equal(t, "bob", moves[1].PlayerID)
		assert.Equal(t, 3, moves[1].Column)

		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.Replay(moves), stored.Board)
		assert.Equal(t, 2, stored.MoveCount)
		assert.Equal(t, entity.X, stored.CurrentTurn)
	})

	t.Run("UpdateWithMove_RejectsStaleMove", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: two writers that read the same empty game
		game := newGame("game-1", baseTime)
		require.NoError(t, repo.Create(ctx, game))

		first := game.Clone()
		first.Board.Set(1, 1, entity.X)
		first.MoveCount = 1

		second := game.Clone()
		second.Board.Set(1, 1, entity.O)
		second.MoveCount = 1

		// When: both store move number 1
		require.NoError(t, repo.UpdateWithMove(ctx, first, entity.Move{
			MoveNumber: 1, PlayerID: "alice", Mark: entity.X, Row: 1, Column: 1, Timestamp: baseTime,
		}))
		err := repo.UpdateWithMove(ctx, second, entity.Move{
			MoveNumber: 1, PlayerID: "bob", Mark: entity.O, Row: 1, Column: 1, Timestamp: baseTime,
		})

		// Then: the second write is rejected and the first one is kept
		require.ErrorIs(t, err, apperror.ErrConcurrentMove)

		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.X, stored.Board.Get(1, 1))
		assert.Equal(t, 1, stored.MoveCount)

		moves, err := repo.ListMoves(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, moves, 1)
		assert.Equal(t, "alice", moves[0].PlayerID)
	})

	t.Run("UpdateWithMove_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		game := newGame("missing", baseTime)
		game.MoveCount = 1

		err := repo.UpdateWithMove(ctx, game, entity.Move{MoveNumber: 1, Mark: entity.X, Row: 1, Column: 1, Timestamp: baseTime})

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("ListMoves_Empty", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a game without moves
		require.NoError(t, repo.Create(ctx, newGame("game-1", baseTime)))

		// When: ListMoves is called
		moves, err := repo.ListMoves(ctx, "game-1")

		// Then: the history is empty
		require.NoError(t, err)
		assert.Empty(t, moves)
	})

	t.Run("List_NewestFirstWithPaging", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: three games created a minute apart
		for i, id := range []string{"game-a", "game-b", "game-c"} {
			require.NoError(t, repo.Create(ctx, newGame(id, baseTime.Add(time.Duration(i)*time.Minute))))
		}

		// When: the first page of two is requested
		games, total, err := repo.List(ctx, entity.GameFilter{}, 1, 2)

		// Then: the newest two come back with the full count
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"game-c", "game-b"}, ids(games))

		// When: the second page is requested
		games, total, err = repo.List(ctx, entity.GameFilter{}, 2, 2)

		// Then: the remaining game comes back
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"game-a"}, ids(games))

		// When: a page past the end is requested
		games, total, err = repo.List(ctx, entity.GameFilter{}, 5, 2)

		// Then: the page is empty but the count is kept
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, games)
	})

	t.Run("List_Filter", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: games with different statuses and players
		pending := newGame("game-pending", baseTime)
		require.NoError(t, repo.Create(ctx, pending))

		finished := completedGame("game-done", baseTime.Add(time.Minute), baseTime.Add(2*time.Minute), entity.WinnerX)
		require.NoError(t, repo.Create(ctx, finished))

		other := newGame("game-other", baseTime.Add(3*time.Minute))
		other.PlayerX = "carol"
		require.NoError(t, repo.Create(ctx, other))

		// When: filtering by status
		games, total, err := repo.List(ctx, entity.GameFilter{Status: entity.StatusCompleted}, 1, 10)

		// Then: only the completed game matches
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"game-done"}, ids(games))

		// When: filtering by player
		games, total, err = repo.List(ctx, entity.GameFilter{PlayerID: "bob"}, 1, 10)

		// Then: only games bob is seated in match
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"game-done"}, ids(games))

		// When: filtering by player alice and status pending
		games, total, err = repo.List(ctx, entity.GameFilter{Status: entity.StatusPending, PlayerID: "alice"}, 1, 10)

		// Then: both conditions apply
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"game-pending"}, ids(games))
	})

	t.Run("ListCompleted_Since", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: two completed games, one older than the window, and one still running
		old := completedGame("game-old", baseTime, baseTime.Add(time.Minute), entity.WinnerX)
		recent := completedGame("game-recent", baseTime, baseTime.Add(48*time.Hour), entity.Draw)
		running := newGame("game-running", baseTime)

		for _, game := range []*entity.Game{recent, old, running} {
			require.NoError(t, repo.Create(ctx, game))
		}

		// When: all completed games are requested
		games, err := repo.ListCompleted(ctx, time.Time{})

		// Then: both come back, oldest completion first
		require.NoError(t, err)
		assert.Equal(t, []string{"game-old", "game-recent"}, ids(games))
		assert.Equal(t, entity.Draw, games[1].Winner)

		// When: only games completed after a day are requested
		games, err = repo.ListCompleted(ctx, baseTime.Add(24*time.Hour))

		// Then: only the recent one comes back
		require.NoError(t, err)
		assert.Equal(t, []string{"game-recent"}, ids(games))
	})

	t.Run("ListCompleted_AfterUpdate", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a running game
		game := newGame("game-1", baseTime)
		game.PlayerO = "bob"
		require.NoError(t, repo.Create(ctx, game))

		// When: it completes through a move
		game.Board.Set(3, 3, entity.X)
		game.MoveCount = 1
		game.Complete(entity.WinnerX, baseTime.Add(time.Hour))
		require.NoError(t, repo.UpdateWithMove(ctx, game, entity.Move{
			MoveNumber: 1, PlayerID: "alice", Mark: entity.X, Row: 3, Column: 3, Timestamp: baseTime.Add(time.Hour),
		}))

		// Then: it is listed as completed with its completion time
		games, err := repo.ListCompleted(ctx, time.Time{})
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, entity.WinnerX, games[0].Winner)
		require.NotNil(t, games[0].CompletedAt)
		assert.True(t, baseTime.Add(time.Hour).Equal(*games[0].CompletedAt))
	})
}

func PlayerRepository(t *testing.T, newRepo PlayerRepositoryFactory) {
	t.Helper()

	t.Run("CreateOrUpdate_Success", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a player
		player := &entity.Player{ID: "alice", Username: "Alice", CreatedAt: baseTime}

		// When: CreateOrUpdate is called twice with a new username
		require.NoError(t, repo.CreateOrUpdate(ctx, player))
		player.Username = "Alice B."
		err := repo.CreateOrUpdate(ctx, player)

		// Then: the latest copy is stored
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice B.", stored.Username)
		assert.True(t, baseTime.Equal(stored.CreatedAt))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// When: GetByID is called with an unknown id
		stored, err := repo.GetByID(ctx, "missing")

		// Then: ErrPlayerNotFound is returned
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
		assert.Empty(t, stored.ID)
	})
}
