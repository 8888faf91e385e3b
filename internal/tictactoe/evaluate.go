package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// lines lists every winning line as 1-based (row, column) cells:
// rows first, then columns, then the two diagonals.
var lines = [8][3][2]int{
	{{1, 1}, {1, 2}, {1, 3}},
	{{2, 1}, {2, 2}, {2, 3}},
	{{3, 1}, {3, 2}, {3, 3}},
	{{1, 1}, {2, 1}, {3, 1}},
	{{1, 2}, {2, 2}, {3, 2}},
	{{1, 3}, {2, 3}, {3, 3}},
	{{1, 1}, {2, 2}, {3, 3}},
	{{1, 3}, {2, 2}, {3, 1}},
}

// LineWinner returns the mark of the first complete line, or entity.Empty when
// there is none. A drawn board and an unfinished board both yield entity.Empty.
func LineWinner(board entity.Board) entity.Mark {
	for _, line := range lines {
		a := board.Get(line[0][0], line[0][1])
		b := board.Get(line[1][0], line[1][1])
		c := board.Get(line[2][0], line[2][1])
		if a != entity.Empty && a == b && b == c {
			return a
		}
	}

	return entity.Empty
}

// Evaluate classifies the board as won, drawn or still open.
func Evaluate(board entity.Board) entity.Winner {
	if mark := LineWinner(board); mark != entity.Empty {
		return entity.WinnerOf(mark)
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.NoWinner
	}

	return entity.Draw
}
