package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	gamesKey          = "games"
	completedGamesKey = "games:completed"
)

func gameKey(id string) string {
	return "game:" + id
}

func movesKey(id string) string {
	return "game:" + id + ":moves"
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.ID), gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	if !created {
		return apperror.ErrGameAlreadyExists
	}

	if _, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		that.index(ctx, pipe, game)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to index game: %w", err)
	}

	return nil
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if _, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), gameJSON, 0)
		that.index(ctx, pipe, game)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

// UpdateWithMove stores the move only if no other move landed since the game
// was read: the stored move count must still be one below the move number.
// The game key is watched, so a write racing in from another process aborts the transaction.
func (that *dbGame) UpdateWithMove(ctx context.Context, game *entity.Game, move entity.Move) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	key := gameKey(game.ID)

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read game: %w", err)
		}

		var current entity.Game
		if err = json.Unmarshal(stored, &current); err != nil {
			return fmt.Errorf("could not unmarshal game: %w", err)
		}

		if current.MoveCount != move.MoveNumber-1 {
			return fmt.Errorf("%w: stored move count %d, move number %d", apperror.ErrConcurrentMove, current.MoveCount, move.MoveNumber)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			pipe.RPush(ctx, movesKey(game.ID), moveJSON)
			that.index(ctx, pipe, game)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: game id %s", apperror.ErrConcurrentMove, game.ID)
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrConcurrentMove):
		return err
	case err != nil:
		return fmt.Errorf("failed to store move: %w", err)
	}

	return nil
}

// index keeps the listing and completion sorted sets in step with the game record.
func (that *dbGame) index(ctx context.Context, pipe redis.Pipeliner, game *entity.Game) {
	pipe.ZAdd(ctx, gamesKey, redis.Z{
		Score:  float64(game.CreatedAt.UnixMilli()),
		Member: game.ID,
	})

	if game.Status == entity.StatusCompleted && game.CompletedAt != nil {
		pipe.ZAdd(ctx, completedGamesKey, redis.Z{
			Score:  float64(game.CompletedAt.UnixMilli()),
			Member: game.ID,
		})
	} else {
		pipe.ZRem(ctx, completedGamesKey, game.ID)
	}
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, apperror.ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	var deleted *redis.IntCmd

	if _, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, gameKey(id))
		pipe.Del(ctx, movesKey(id))
		pipe.ZRem(ctx, gamesKey, id)
		pipe.ZRem(ctx, completedGamesKey, id)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted.Val() == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func (that *dbGame) List(ctx context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error) {
	ids, err := that.client.ZRevRange(ctx, gamesKey, 0, -1).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list game ids: %w", err)
	}

	games, err := that.getMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*entity.Game, 0, len(games))
	for _, game := range games {
		if filter.Matches(game) {
			matched = append(matched, game)
		}
	}

	SortNewestFirst(matched)

	return Paginate(matched, page, pageSize), len(matched), nil
}

func (that *dbGame) ListMoves(ctx context.Context, gameID string) ([]entity.Move, error) {
	response, err := that.client.LRange(ctx, movesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	moves := make([]entity.Move, 0, len(response))
	for _, raw := range response {
		var move entity.Move
		if err = json.Unmarshal([]byte(raw), &move); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move: %w", err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

func (that *dbGame) ListCompleted(ctx context.Context, since time.Time) ([]*entity.Game, error) {
	minScore := "-inf"
	if !since.IsZero() {
		minScore = strconv.FormatInt(since.UnixMilli(), 10)
	}

	ids, err := that.client.ZRangeByScore(ctx, completedGamesKey, &redis.ZRangeBy{
		Min: minScore,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list completed game ids: %w", err)
	}

	games, err := that.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	completed := make([]*entity.Game, 0, len(games))
	for _, game := range games {
		if IsCompletedSince(game, since) {
			completed = append(completed, game)
		}
	}

	SortByCompletion(completed)

	return completed, nil
}

// getMany loads games by id, skipping ids whose record has gone.
func (that *dbGame) getMany(ctx context.Context, ids []string) ([]*entity.Game, error) {
	if len(ids) == 0 {
		return []*entity.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(id)
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*entity.Game, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}
		games = append(games, &game)
	}

	return games, nil
}
