package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	DefaultPointsPerWin     = 10
)

type StatisticsService interface {
	GetPlayerStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
	GetLeaderboard(ctx context.Context, timeframe string, limit int) (*entity.Leaderboard, error)
}

type completedGamesRepo interface {
	ListCompleted(ctx context.Context, since time.Time) ([]*entity.Game, error)
}

type playerGetter interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type StatisticsOptions struct {
	PointsPerWin        int
	AllowUnknownPlayers bool
}

type statisticsService struct {
	logger *slog.Logger

	gameRepo   completedGamesRepo
	playerRepo playerGetter
	options    StatisticsOptions

	now func() time.Time
}

func NewStatisticsService(logger *slog.Logger, gameRepo completedGamesRepo, playerRepo playerGetter, options StatisticsOptions) StatisticsService {
	if options.PointsPerWin < 1 {
		options.PointsPerWin = DefaultPointsPerWin
	}

	return &statisticsService{
		logger:     logger.With("component", "statistics_service"),
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		options:    options,
		now:        time.Now,
	}
}

func (that *statisticsService) GetPlayerStats(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	if _, err := that.playerRepo.GetByID(ctx, playerID); err != nil {
		if !errors.Is(err, apperror.ErrPlayerNotFound) || !that.options.AllowUnknownPlayers {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	games, err := that.gameRepo.ListCompleted(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list completed games: %w", err)
	}

	stats := playerStats(playerID, games)

	return &stats, nil
}

// playerStats folds completed games, oldest first, into one player's record.
// A draw ends both a winning and a losing run.
func playerStats(playerID string, games []*entity.Game) entity.PlayerStats {
	stats := entity.PlayerStats{PlayerID: playerID}

	for _, game := range games {
		mark, ok := game.MarkOf(playerID)
		if !ok {
			continue
		}

		stats.GamesPlayed++

		switch {
		case game.Winner.IsDraw():
			stats.Draws++
			stats.CurrentStreak = 0
		case game.Winner.Mark() == mark:
			stats.Wins++
			stats.CurrentStreak = max(stats.CurrentStreak, 0) + 1
			stats.LongestWinStreak = max(stats.LongestWinStreak, stats.CurrentStreak)
		default:
			stats.Losses++
			stats.CurrentStreak = min(stats.CurrentStreak, 0) - 1
		}
	}

	if stats.GamesPlayed > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.GamesPlayed)
	}

	return stats
}

func (that *statisticsService) GetLeaderboard(ctx context.Context, timeframe string, limit int) (*entity.Leaderboard, error) {
	tf, err := entity.ParseTimeframe(timeframe)
	if err != nil {
		return nil, apperror.NewValidationError(map[string]string{
			"timeframe": "must be one of daily, weekly, monthly, all-time",
		})
	}

	limit = clampLeaderboardLimit(limit)
	now := that.now()

	games, err := that.gameRepo.ListCompleted(ctx, tf.Since(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed games: %w", err)
	}

	entries := rankPlayers(games, that.options.PointsPerWin)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Player = that.lookupPlayer(ctx, entries[i].Player.ID)
	}

	return &entity.Leaderboard{
		Timeframe:   tf,
		Entries:     entries,
		GeneratedAt: now,
	}, nil
}

func clampLeaderboardLimit(limit int) int {
	if limit == 0 {
		return DefaultLeaderboardLimit
	}

	return min(max(limit, 1), MaxLeaderboardLimit)
}

// rankPlayers orders seated players by score; equal scores keep the order in
// which the players first appear in games.
func rankPlayers(games []*entity.Game, pointsPerWin int) []entity.LeaderboardEntry {
	entries := make([]entity.LeaderboardEntry, 0)
	index := make(map[string]int)

	for _, game := range games {
		for _, mark := range []entity.Mark{entity.X, entity.O} {
			playerID := game.PlayerFor(mark)
			if playerID == "" {
				continue
			}

			i, ok := index[playerID]
			if !ok {
				i = len(entries)
				index[playerID] = i
				entries = append(entries, entity.LeaderboardEntry{Player: entity.Player{ID: playerID}})
			}

			entries[i].GamesPlayed++
			if game.Winner.Mark() == mark {
				entries[i].Wins++
				entries[i].Score += pointsPerWin
			}
		}
	}

	slices.SortStableFunc(entries, func(a, b entity.LeaderboardEntry) int {
		return b.Score - a.Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

func (that *statisticsService) lookupPlayer(ctx context.Context, playerID string) entity.Player {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if !errors.Is(err, apperror.ErrPlayerNotFound) {
			that.logger.Warn("failed to load leaderboard player", "player_id", playerID, "error", err)
		}
		return entity.Player{ID: playerID}
	}

	return *player
}
