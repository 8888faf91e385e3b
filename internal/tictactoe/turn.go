package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Rules applies moves to a game. With StrictTurnOrder off, either mark may be
// played at any time.
type Rules struct {
	StrictTurnOrder bool
}

// MakeTurn validates and applies one move. The game is only modified when the
// returned error is nil.
func (that Rules) MakeTurn(game *entity.Game, row, column int, markValue string, now time.Time) (entity.Move, error) {
	mark, err := validateMove(row, column, markValue)
	if err != nil {
		return entity.Move{}, err
	}

	if err = that.confirmTurn(game, row, column, mark); err != nil {
		return entity.Move{}, err
	}

	game.Board.Set(row, column, mark)
	game.MoveCount++
	game.CurrentTurn = mark.Opponent()
	game.UpdatedAt = now

	if game.IsPending() {
		game.Status = entity.StatusInProgress
	}

	updateGameStatus(game, now)

	return entity.Move{
		MoveNumber: game.MoveCount,
		PlayerID:   movePlayerID(game, mark),
		Mark:       mark,
		Row:        row,
		Column:     column,
		Timestamp:  now,
	}, nil
}

// validateMove - checks the input independent of game state.
func validateMove(row, column int, markValue string) (entity.Mark, error) {
	if !entity.InBounds(row, column) {
		return entity.Empty, fmt.Errorf("%w: row %d, column %d", apperror.ErrInvalidCoordinates, row, column)
	}

	return entity.ParseMark(markValue)
}

// confirmTurn - checks the move against the current game state.
func (that Rules) confirmTurn(game *entity.Game, row, column int, mark entity.Mark) error {
	if game.IsTerminal() || Evaluate(game.Board).IsDecided() {
		return apperror.ErrGameFinished
	}

	if err := game.ConfirmPlayable(); err != nil {
		return err
	}

	if that.StrictTurnOrder && game.CurrentTurn != mark {
		return fmt.Errorf("%w: expected %s", apperror.ErrNotYourTurn, game.CurrentTurn)
	}

	if game.Board.Get(row, column) != entity.Empty {
		return fmt.Errorf("%w: row %d, column %d", apperror.ErrSquareOccupied, row, column)
	}

	return nil
}

// updateGameStatus - completes the game when the board is decided.
func updateGameStatus(game *entity.Game, now time.Time) {
	winner := Evaluate(game.Board)
	if winner.IsDecided() {
		game.Complete(winner, now)
		return
	}

	game.Winner = entity.NoWinner
}

func movePlayerID(game *entity.Game, mark entity.Mark) string {
	if id := game.PlayerFor(mark); id != "" {
		return id
	}
	return "player-" + string(mark)
}
