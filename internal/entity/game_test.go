package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsPending returns true for a new game", func(t *testing.T) {
		// Given: a freshly created game
		game := NewGame("123", ModePVP, time.Now())

		// Then: it should be pending and not terminal
		assert.True(t, game.IsPending())
		assert.False(t, game.IsTerminal())
	})

	t.Run("IsInProgress returns true when game status is in progress", func(t *testing.T) {
		game := &Game{Status: StatusInProgress}

		assert.True(t, game.IsInProgress())
		assert.False(t, game.IsTerminal())
	})

	t.Run("Completed and abandoned games are terminal", func(t *testing.T) {
		assert.True(t, (&Game{Status: StatusCompleted}).IsTerminal())
		assert.True(t, (&Game{Status: StatusAbandoned}).IsTerminal())
	})
}

func TestNewGame(t *testing.T) {
	// Given: a creation time
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// When: a new game is created
	game := NewGame("123", ModeAIEasy, now)

	// Then: the game should match the initial state
	expectedGame := &Game{
		ID:          "123",
		Mode:        ModeAIEasy,
		Status:      StatusPending,
		Board:       NewBoard(),
		CurrentTurn: X,
		Winner:      NoWinner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	require.Equal(t, expectedGame, game)
}

func TestGame_ConfirmPlayable(t *testing.T) {
	t.Run("Returns nil when game is pending or in progress", func(t *testing.T) {
		assert.NoError(t, (&Game{Status: StatusPending}).ConfirmPlayable())
		assert.NoError(t, (&Game{Status: StatusInProgress}).ConfirmPlayable())
	})

	t.Run("Returns ErrGameFinished when game is terminal", func(t *testing.T) {
		assert.ErrorIs(t, (&Game{Status: StatusCompleted}).ConfirmPlayable(), apperror.ErrGameFinished)
		assert.ErrorIs(t, (&Game{Status: StatusAbandoned}).ConfirmPlayable(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game accepts moves
		err := game.ConfirmPlayable()

		// Then: it should return an error
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestGame_Players(t *testing.T) {
	game := &Game{PlayerX: "alice", PlayerO: "bob"}

	t.Run("MarkOf resolves seated players", func(t *testing.T) {
		mark, ok := game.MarkOf("bob")
		require.True(t, ok)
		assert.Equal(t, O, mark)

		_, ok = game.MarkOf("carol")
		assert.False(t, ok)

		_, ok = game.MarkOf("")
		assert.False(t, ok)
	})

	t.Run("PlayerFor returns the seat owner", func(t *testing.T) {
		assert.Equal(t, "alice", game.PlayerFor(X))
		assert.Equal(t, "bob", game.PlayerFor(O))
		assert.Empty(t, game.PlayerFor(Empty))
	})

	t.Run("HasPlayer ignores empty ids", func(t *testing.T) {
		assert.True(t, game.HasPlayer("alice"))
		assert.False(t, (&Game{}).HasPlayer(""))
	})
}

func TestGame_Complete(t *testing.T) {
	// Given: an in-progress game
	now := time.Now()
	game := &Game{Status: StatusInProgress, Winner: NoWinner}

	// When: completing the game with a draw
	game.Complete(Draw, now)

	// Then: status, winner and completion time are recorded
	assert.Equal(t, StatusCompleted, game.Status)
	assert.Equal(t, Draw, game.Winner)
	require.NotNil(t, game.CompletedAt)
	assert.Equal(t, now, *game.CompletedAt)
	assert.Equal(t, now, game.UpdatedAt)
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with metadata and a completion time
	completedAt := time.Now()
	game := &Game{
		ID:          "g1",
		Board:       NewBoard(),
		Metadata:    map[string]any{"k": "v"},
		CompletedAt: &completedAt,
	}

	// When: the clone is mutated
	clone := game.Clone()
	clone.Board.Set(1, 1, X)
	clone.Metadata["k"] = "changed"
	*clone.CompletedAt = completedAt.Add(time.Hour)

	// Then: the original is untouched
	assert.Equal(t, Empty, game.Board.Get(1, 1))
	assert.Equal(t, "v", game.Metadata["k"])
	assert.Equal(t, completedAt, *game.CompletedAt)
}

func TestGameFilter_Matches(t *testing.T) {
	game := &Game{Status: StatusCompleted, PlayerX: "alice", PlayerO: "bob"}

	tests := []struct {
		name   string
		filter GameFilter
		want   bool
	}{
		{name: "empty filter", filter: GameFilter{}, want: true},
		{name: "status match", filter: GameFilter{Status: StatusCompleted}, want: true},
		{name: "status mismatch", filter: GameFilter{Status: StatusPending}, want: false},
		{name: "player O match", filter: GameFilter{PlayerID: "bob"}, want: true},
		{name: "player mismatch", filter: GameFilter{PlayerID: "carol"}, want: false},
		{name: "both match", filter: GameFilter{Status: StatusCompleted, PlayerID: "alice"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(game))
		})
	}
}

func TestParseGameStatusAndMode(t *testing.T) {
	status, err := ParseGameStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseGameStatus("IN_PROGRESS")
	require.Error(t, err)

	mode, err := ParseGameMode("ai_hard")
	require.NoError(t, err)
	assert.True(t, mode.IsAI())
	assert.False(t, ModePVP.IsAI())

	_, err = ParseGameMode("chess")
	require.Error(t, err)
}
