package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.Storage{Driver: config.DriverMemory},
		Game:    config.Game{StrictTurnOrder: true, DefaultPageSize: 5},
		Stats:   config.Stats{PointsPerWin: 3},
	}
}

func TestOpenRepositories(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("Memory driver", func(t *testing.T) {
		repos, err := openRepositories(ctx, logger, testConfig())

		require.NoError(t, err)
		defer repos.close()
		assert.NotNil(t, repos.games)
		assert.NotNil(t, repos.players)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		conf := testConfig()
		conf.Storage.Driver = "sqlite"

		_, err := openRepositories(ctx, logger, conf)

		require.ErrorIs(t, err, config.ErrUnknownDriver)
	})
}

func TestNewTicTacToe(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	conf := testConfig()

	repos, err := openRepositories(ctx, logger, conf)
	require.NoError(t, err)

	game := newTicTacToe(logger, conf, repos)

	// Given: a game between two players
	created, err := game.CreateGame(ctx, entity.CreateGameParams{Mode: "pvp", CreatorID: "alice", OpponentID: "bob"})
	require.NoError(t, err)

	// When: X plays twice in a row
	_, err = game.PutSquare(ctx, created.ID, 1, 1, "X")
	require.NoError(t, err)
	_, err = game.PutSquare(ctx, created.ID, 1, 2, "X")

	// Then: the configured strict turn order rejects it
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)

	// And: the configured page size and points per win apply
	page, err := game.ListGames(ctx, entity.ListGamesParams{})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit)

	for _, move := range []struct {
		row, column int
		mark        string
	}{{2, 1, "O"}, {1, 2, "X"}, {2, 2, "O"}, {1, 3, "X"}} {
		_, err = game.PutSquare(ctx, created.ID, move.row, move.column, move.mark)
		require.NoError(t, err)
	}

	board, err := game.GetLeaderboard(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "alice", board.Entries[0].Player.ID)
	assert.Equal(t, 3, board.Entries[0].Score)
}

func TestNewAuthService(t *testing.T) {
	conf := testConfig()
	assert.Nil(t, newAuthService(conf))

	conf.Auth.JWTSecretKey = "secret"
	assert.NotNil(t, newAuthService(conf))
}
