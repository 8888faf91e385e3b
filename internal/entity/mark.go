package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is the content of a board cell or the symbol placed by a move.
type Mark string

const (
	Empty Mark = "."
	X     Mark = "X"
	O     Mark = "O"
)

// ParseMark accepts exactly "X" or "O".
func ParseMark(s string) (Mark, error) {
	switch Mark(s) {
	case X, O:
		return Mark(s), nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

func (that Mark) IsPlayer() bool {
	return that == X || that == O
}

func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Winner is the outcome of a board: still open, won by a mark, or drawn.
type Winner string

const (
	NoWinner Winner = "."
	WinnerX  Winner = "X"
	WinnerO  Winner = "O"
	Draw     Winner = "draw"
)

func WinnerOf(mark Mark) Winner {
	switch mark {
	case X:
		return WinnerX
	case O:
		return WinnerO
	default:
		return NoWinner
	}
}

// IsDecided reports whether the game can no longer continue.
func (that Winner) IsDecided() bool {
	return that == WinnerX || that == WinnerO || that == Draw
}

func (that Winner) IsDraw() bool {
	return that == Draw
}

// Mark returns the winning mark, or Empty for an open or drawn game.
func (that Winner) Mark() Mark {
	switch that {
	case WinnerX:
		return X
	case WinnerO:
		return O
	default:
		return Empty
	}
}
