// Package memory keeps games and players in process memory, for tests and single-node runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

// gameStore hands out clones so callers never share state with the stored records.
type gameStore struct {
	mu    sync.RWMutex
	games map[string]*entity.Game
	moves map[string][]entity.Move
}

func NewGameRepository() repository.GameRepository {
	return &gameStore{
		games: make(map[string]*entity.Game),
		moves: make(map[string][]entity.Move),
	}
}

func (that *gameStore) Create(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return apperror.ErrGameAlreadyExists
	}

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *gameStore) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *gameStore) UpdateWithMove(_ context.Context, game *entity.Game, move entity.Move) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, ok := that.games[game.ID]
	if !ok {
		return apperror.ErrGameNotFound
	}

	if current.MoveCount != move.MoveNumber-1 {
		return fmt.Errorf("%w: stored move count %d, move number %d", apperror.ErrConcurrentMove, current.MoveCount, move.MoveNumber)
	}

	that.games[game.ID] = game.Clone()
	that.moves[game.ID] = append(that.moves[game.ID], move)

	return nil
}

func (that *gameStore) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, apperror.ErrGameNotFound
	}

	return game.Clone(), nil
}

func (that *gameStore) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)
	delete(that.moves, id)

	return nil
}

func (that *gameStore) List(_ context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error) {
	that.mu.RLock()
	matched := make([]*entity.Game, 0, len(that.games))
	for _, game := range that.games {
		if filter.Matches(game) {
			matched = append(matched, game.Clone())
		}
	}
	that.mu.RUnlock()

	repository.SortNewestFirst(matched)

	return repository.Paginate(matched, page, pageSize), len(matched), nil
}

func (that *gameStore) ListMoves(_ context.Context, gameID string) ([]entity.Move, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	moves := slices.Clone(that.moves[gameID])
	if moves == nil {
		moves = []entity.Move{}
	}

	return moves, nil
}

func (that *gameStore) ListCompleted(_ context.Context, since time.Time) ([]*entity.Game, error) {
	that.mu.RLock()
	completed := make([]*entity.Game, 0)
	for _, game := range that.games {
		if repository.IsCompletedSince(game, since) {
			completed = append(completed, game.Clone())
		}
	}
	that.mu.RUnlock()

	repository.SortByCompletion(completed)

	return completed, nil
}
