package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	// When: a new board is created
	board := NewBoard()

	// Then: every cell is explicitly empty
	for row := 1; row <= BoardSize; row++ {
		for column := 1; column <= BoardSize; column++ {
			assert.Equal(t, Empty, board.Get(row, column))
		}
	}
	assert.Equal(t, 9, board.EmptyCount())
	assert.False(t, board.IsFull())
}

func TestBoard_SetGet(t *testing.T) {
	// Given: an empty board
	board := NewBoard()

	// When: marks are placed with 1-based coordinates
	board.Set(1, 1, X)
	board.Set(3, 2, O)

	// Then: they are readable at the same coordinates
	assert.Equal(t, X, board.Get(1, 1))
	assert.Equal(t, O, board.Get(3, 2))
	assert.Equal(t, O, board[2][1])
	assert.Equal(t, 7, board.EmptyCount())
}

func TestBoard_IsFull(t *testing.T) {
	board, err := ParseBoard("XOXOXOOXO")
	require.NoError(t, err)

	assert.True(t, board.IsFull())
	assert.Zero(t, board.EmptyCount())
}

func TestInBounds(t *testing.T) {
	assert.True(t, InBounds(1, 1))
	assert.True(t, InBounds(3, 3))
	assert.False(t, InBounds(0, 1))
	assert.False(t, InBounds(1, 4))
	assert.False(t, InBounds(-1, 2))
}

func TestBoard_StringRoundTrip(t *testing.T) {
	t.Run("Encodes row-major", func(t *testing.T) {
		board := NewBoard()
		board.Set(1, 1, X)
		board.Set(2, 3, O)

		assert.Equal(t, "X....O...", board.String())
	})

	t.Run("Rejects bad length", func(t *testing.T) {
		_, err := ParseBoard("X..")
		assert.ErrorIs(t, err, ErrInvalidBoardEncoding)
	})

	t.Run("Rejects unknown characters", func(t *testing.T) {
		_, err := ParseBoard("X...Z....")
		assert.ErrorIs(t, err, ErrInvalidBoardEncoding)
	})
}

func TestBoard_JSON(t *testing.T) {
	// Given: a board with one mark
	board := NewBoard()
	board.Set(2, 2, X)

	// When: it is marshalled
	data, err := json.Marshal(board)
	require.NoError(t, err)

	// Then: empty cells serialize as "."
	assert.JSONEq(t, `[[".",".","."],[".","X","."],[".",".","."]]`, string(data))
}

func TestReplay(t *testing.T) {
	moves := []Move{
		{MoveNumber: 1, Mark: X, Row: 1, Column: 1},
		{MoveNumber: 2, Mark: O, Row: 2, Column: 2},
	}

	board := Replay(moves)

	assert.Equal(t, "X...O....", board.String())
}

func TestParseMark(t *testing.T) {
	mark, err := ParseMark("X")
	require.NoError(t, err)
	assert.Equal(t, X, mark)

	for _, bad := range []string{"x", "o", "", ".", "XO"} {
		_, err = ParseMark(bad)
		assert.ErrorIs(t, err, apperror.ErrInvalidMark, bad)
	}
}

func TestWinner(t *testing.T) {
	assert.Equal(t, WinnerX, WinnerOf(X))
	assert.Equal(t, NoWinner, WinnerOf(Empty))
	assert.True(t, Draw.IsDecided())
	assert.True(t, WinnerO.IsDecided())
	assert.False(t, NoWinner.IsDecided())
	assert.False(t, Winner("").IsDecided())
	assert.Equal(t, O, WinnerO.Mark())
	assert.Equal(t, Empty, Draw.Mark())
	assert.Equal(t, O, X.Opponent())
}
