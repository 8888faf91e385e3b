package entity

import (
	"errors"
	"fmt"
	"strings"
)

const BoardSize = 3

var ErrInvalidBoardEncoding = errors.New("invalid board encoding")

// Board is a 3x3 grid addressed with 1-based row and column.
// Every cell always holds a Mark; untouched cells hold Empty.
type Board [BoardSize][BoardSize]Mark

func NewBoard() Board {
	var board Board
	for r := range board {
		for c := range board[r] {
			board[r][c] = Empty
		}
	}
	return board
}

// InBounds reports whether row and column address a cell.
func InBounds(row, column int) bool {
	return row >= 1 && row <= BoardSize && column >= 1 && column <= BoardSize
}

// Get panics on out-of-range coordinates; callers check InBounds first.
func (that Board) Get(row, column int) Mark {
	return that[row-1][column-1]
}

func (that *Board) Set(row, column int, mark Mark) {
	that[row-1][column-1] = mark
}

func (that Board) EmptyCount() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				count++
			}
		}
	}
	return count
}

func (that Board) IsFull() bool {
	return that.EmptyCount() == 0
}

// Replay builds a board by applying moves in order onto an empty board.
func Replay(moves []Move) Board {
	board := NewBoard()
	for _, move := range moves {
		board.Set(move.Row, move.Column, move.Mark)
	}
	return board
}

// String encodes the board row-major as nine characters, e.g. "X.O......".
func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize)
	for _, row := range that {
		for _, cell := range row {
			sb.WriteString(string(cell))
		}
	}
	return sb.String()
}

func ParseBoard(s string) (Board, error) {
	if len(s) != BoardSize*BoardSize {
		return Board{}, fmt.Errorf("%w: length %d", ErrInvalidBoardEncoding, len(s))
	}

	var board Board
	for i, ch := range s {
		mark := Mark(ch)
		if mark != Empty && !mark.IsPlayer() {
			return Board{}, fmt.Errorf("%w: cell %d is %q", ErrInvalidBoardEncoding, i, ch)
		}
		board[i/BoardSize][i%BoardSize] = mark
	}

	return board, nil
}
