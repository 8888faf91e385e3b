package repository

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type GameRepository interface {
	// Create stores a new game and fails with apperror.ErrGameAlreadyExists on a duplicate id.
	Create(ctx context.Context, game *entity.Game) error
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	// UpdateWithMove stores the game and appends move to its history as one unit.
	UpdateWithMove(ctx context.Context, game *entity.Game, move entity.Move) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	// List returns one page of matching games, newest first, and the total match count.
	List(ctx context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error)
	ListMoves(ctx context.Context, gameID string) ([]entity.Move, error)
	// ListCompleted returns completed games finished at or after since, oldest first.
	ListCompleted(ctx context.Context, since time.Time) ([]*entity.Game, error)
}

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

// SortNewestFirst orders games by creation time descending, then by id.
func SortNewestFirst(games []*entity.Game) {
	slices.SortStableFunc(games, func(a, b *entity.Game) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// SortByCompletion orders completed games by completion time ascending, then by id.
func SortByCompletion(games []*entity.Game) {
	slices.SortStableFunc(games, func(a, b *entity.Game) int {
		if c := completedAt(a).Compare(completedAt(b)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func completedAt(game *entity.Game) time.Time {
	if game.CompletedAt == nil {
		return time.Time{}
	}
	return *game.CompletedAt
}

// IsCompletedSince reports whether game is completed and finished at or after since.
func IsCompletedSince(game *entity.Game, since time.Time) bool {
	return game.Status == entity.StatusCompleted && game.CompletedAt != nil && !game.CompletedAt.Before(since)
}

// Offset returns the index of the first item on a 1-based page. It reports
// false for pages whose offset is not a representable int.
func Offset(page, pageSize int) (int, bool) {
	if page < 1 || pageSize < 1 || page-1 > math.MaxInt/pageSize {
		return 0, false
	}

	return (page - 1) * pageSize, true
}

// Paginate returns the 1-based page of games; out-of-range pages are empty.
func Paginate(games []*entity.Game, page, pageSize int) []*entity.Game {
	start, ok := Offset(page, pageSize)
	if !ok || start >= len(games) {
		return []*entity.Game{}
	}

	end := min(start+pageSize, len(games))

	return games[start:end]
}
