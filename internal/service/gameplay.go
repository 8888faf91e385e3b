package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GamePlayService interface {
	GetBoard(ctx context.Context, gameID string) (entity.BoardState, error)
	GetSquare(ctx context.Context, gameID string, row, column int) (entity.Mark, error)
	PutSquare(ctx context.Context, gameID string, row, column int, mark string) (entity.BoardState, error)

	GetMoves(ctx context.Context, gameID string) ([]entity.Move, error)
}

type movesRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateWithMove(ctx context.Context, game *entity.Game, move entity.Move) error
	ListMoves(ctx context.Context, gameID string) ([]entity.Move, error)
}

type gamePlayService struct {
	logger *slog.Logger

	gameRepo movesRepo
	rules    tictactoe.Rules
	locks    *pkg.KeyLock

	now func() time.Time
}

func NewGamePlayService(logger *slog.Logger, gameRepo movesRepo, rules tictactoe.Rules, locks *pkg.KeyLock) GamePlayService {
	return &gamePlayService{
		logger:   logger.With("component", "gameplay_service"),
		gameRepo: gameRepo,
		rules:    rules,
		locks:    locks,
		now:      time.Now,
	}
}

func (that *gamePlayService) GetBoard(ctx context.Context, gameID string) (entity.BoardState, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.BoardState{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	return boardState(game), nil
}

// boardState reports the winner evaluated from the board rather than the stored field.
func boardState(game *entity.Game) entity.BoardState {
	state := game.BoardState()
	state.Winner = tictactoe.Evaluate(game.Board)

	return state
}

// GetSquare reports a missing game before it looks at the coordinates.
func (that *gamePlayService) GetSquare(ctx context.Context, gameID string, row, column int) (entity.Mark, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !entity.InBounds(row, column) {
		return entity.Empty, fmt.Errorf("%w: row %d, column %d", apperror.ErrInvalidCoordinates, row, column)
	}

	return game.Board.Get(row, column), nil
}

// PutSquare applies one move while holding the game's lock, so concurrent
// moves on the same game are serialized and the board and history are stored together.
// Writers in other processes are caught by the store and fail with apperror.ErrConcurrentMove.
func (that *gamePlayService) PutSquare(ctx context.Context, gameID string, row, column int, mark string) (entity.BoardState, error) {
	log := that.logger.With("method", "PutSquare", "game_id", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.BoardState{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	move, err := that.rules.MakeTurn(game, row, column, mark, that.now())
	if err != nil {
		log.Debug("move rejected", "row", row, "column", column, "mark", mark, "error", err)
		return entity.BoardState{}, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameRepo.UpdateWithMove(ctx, game, move); err != nil {
		if errors.Is(err, apperror.ErrConcurrentMove) {
			log.Warn("move lost a race with another writer", "move_number", move.MoveNumber, "error", err)
		} else {
			log.Error("failed to store move", "error", err)
		}
		return entity.BoardState{}, fmt.Errorf("failed to update game: %w", err)
	}

	log.Info("move applied",
		"move_number", move.MoveNumber,
		"mark", move.Mark,
		"row", row,
		"column", column,
		"status", game.Status,
		"winner", game.Winner,
	)

	return boardState(game), nil
}

func (that *gamePlayService) GetMoves(ctx context.Context, gameID string) ([]entity.Move, error) {
	if _, err := that.gameRepo.GetByID(ctx, gameID); err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	moves, err := that.gameRepo.ListMoves(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	return moves, nil
}
