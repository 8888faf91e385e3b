package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, s string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(s)
	require.NoError(t, err)

	return board
}

func TestLineWinner(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  entity.Mark
	}{
		{name: "top row", board: "XXX.O.O..", want: entity.X},
		{name: "middle row", board: "X.XOOOX..", want: entity.O},
		{name: "bottom row", board: "OO.X.XXXX", want: entity.X},
		{name: "left column", board: "XO.XO.X..", want: entity.X},
		{name: "middle column", board: "XO..OX.O.", want: entity.O},
		{name: "right column", board: "O.XO.X..X", want: entity.X},
		{name: "main diagonal", board: "OX.XO...O", want: entity.O},
		{name: "anti diagonal", board: "O.X.XOX..", want: entity.X},
		{name: "ongoing", board: "XO..X...O", want: entity.Empty},
		{name: "empty", board: ".........", want: entity.Empty},
		{name: "drawn", board: "XOXXOOOXX", want: entity.Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineWinner(mustBoard(t, tt.board)))
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("Winner X", func(t *testing.T) {
		// Given: a board where player X has a winning combination
		board := mustBoard(t, "XO.XO.X..")

		// When: evaluating the board
		winner := Evaluate(board)

		// Then: player X should be declared the winner
		require.Equal(t, entity.WinnerX, winner)
	})

	t.Run("Ongoing Game", func(t *testing.T) {
		// Given: a board where there is no winner yet
		board := mustBoard(t, "XOX.O.X..")

		// When: evaluating the board
		winner := Evaluate(board)

		// Then: the game should continue
		require.Equal(t, entity.NoWinner, winner)
		assert.False(t, winner.IsDecided())
	})

	t.Run("Draw is reported explicitly", func(t *testing.T) {
		// Given: a full board with no three-in-a-row
		board := mustBoard(t, "OXOOXXXOX")

		// When: evaluating the board
		winner := Evaluate(board)

		// Then: the line evaluator sees nothing and the fullness check reports a draw
		assert.Equal(t, entity.Empty, LineWinner(board))
		assert.True(t, board.IsFull())
		assert.Equal(t, entity.Draw, winner)
	})

	t.Run("Win on the last square is a win, not a draw", func(t *testing.T) {
		board := mustBoard(t, "XOXOXOOXX")

		assert.Equal(t, entity.WinnerX, Evaluate(board))
	})
}

// TestLineWinner_AllBoards checks every possible grid against a direct definition:
// a mark wins only if some line is uniform and non-empty.
func TestLineWinner_AllBoards(t *testing.T) {
	marks := [3]entity.Mark{entity.Empty, entity.X, entity.O}

	total := 1
	for range entity.BoardSize * entity.BoardSize {
		total *= len(marks)
	}

	for n := range total {
		board := entity.NewBoard()
		code := n
		for i := range entity.BoardSize * entity.BoardSize {
			board[i/entity.BoardSize][i%entity.BoardSize] = marks[code%len(marks)]
			code /= len(marks)
		}

		got := LineWinner(board)

		uniform := map[entity.Mark]bool{}
		for _, line := range lines {
			a := board.Get(line[0][0], line[0][1])
			if a != entity.Empty && a == board.Get(line[1][0], line[1][1]) && a == board.Get(line[2][0], line[2][1]) {
				uniform[a] = true
			}
		}

		if len(uniform) == 0 {
			require.Equal(t, entity.Empty, got, board.String())
			continue
		}
		require.True(t, uniform[got], board.String())
	}
}
