package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

// TicTacToe is the single entry point transports use to drive games.
type TicTacToe interface {
	CreateGame(ctx context.Context, params entity.CreateGameParams) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID, requesterID string) error
	ListGames(ctx context.Context, params entity.ListGamesParams) (*entity.GamePage, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	AbandonGame(ctx context.Context, gameID, requesterID string) (*entity.Game, error)

	GetBoard(ctx context.Context, gameID string) (entity.BoardState, error)
	GetSquare(ctx context.Context, gameID string, row, column int) (entity.Mark, error)
	PutSquare(ctx context.Context, gameID string, row, column int, mark string) (entity.BoardState, error)
	GetMoves(ctx context.Context, gameID string) ([]entity.Move, error)

	GetLeaderboard(ctx context.Context, timeframe string, limit int) (*entity.Leaderboard, error)
	GetPlayerStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)

	RegisterPlayer(ctx context.Context, username string) (*entity.Player, error)
	GetPlayer(ctx context.Context, playerID string) (*entity.Player, error)
}

type gameUseCase struct {
	service.GameService
	service.GamePlayService
	service.StatisticsService

	playerService service.PlayerService
}

func NewTicTacToe(
	gameService service.GameService,
	gamePlayService service.GamePlayService,
	statisticsService service.StatisticsService,
	playerService service.PlayerService,
) TicTacToe {
	return &gameUseCase{
		GameService:       gameService,
		GamePlayService:   gamePlayService,
		StatisticsService: statisticsService,
		playerService:     playerService,
	}
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.GetGameByID(ctx, gameID)
}

func (that *gameUseCase) RegisterPlayer(ctx context.Context, username string) (*entity.Player, error) {
	return that.playerService.CreatePlayer(ctx, username)
}

func (that *gameUseCase) GetPlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	return that.playerService.GetPlayerByID(ctx, playerID)
}
