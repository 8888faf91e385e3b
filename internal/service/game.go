package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type GameService interface {
	CreateGame(ctx context.Context, params entity.CreateGameParams) (*entity.Game, error)
	// DeleteGame removes a game; a non-empty requesterID must be seated in it.
	DeleteGame(ctx context.Context, gameID, requesterID string) error

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	ListGames(ctx context.Context, params entity.ListGamesParams) (*entity.GamePage, error)

	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	// AbandonGame ends a game; a non-empty requesterID must be seated in it.
	AbandonGame(ctx context.Context, gameID, requesterID string) (*entity.Game, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	CreateOrUpdate(ctx context.Context, game *entity.Game) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	List(ctx context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error)

	DeleteByID(ctx context.Context, id string) error
}

type playerEnsurer interface {
	EnsurePlayer(ctx context.Context, id string) (*entity.Player, error)
}

type gameService struct {
	logger *slog.Logger

	gameRepo      gameRepo
	playerService playerEnsurer
	locks         *pkg.KeyLock

	defaultPageSize int
	now             func() time.Time
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, playerService playerEnsurer, locks *pkg.KeyLock, defaultPageSize int) GameService {
	if defaultPageSize < 1 || defaultPageSize > MaxPageSize {
		defaultPageSize = DefaultPageSize
	}

	return &gameService{
		logger:          logger.With("component", "game_service"),
		gameRepo:        gameRepo,
		playerService:   playerService,
		locks:           locks,
		defaultPageSize: defaultPageSize,
		now:             time.Now,
	}
}

func (that *gameService) CreateGame(ctx context.Context, params entity.CreateGameParams) (*entity.Game, error) {
	mode, err := validateCreateGame(params)
	if err != nil {
		return nil, err
	}

	for _, playerID := range []string{params.CreatorID, params.OpponentID} {
		if playerID == "" {
			continue
		}
		if _, err = that.playerService.EnsurePlayer(ctx, playerID); err != nil {
			return nil, fmt.Errorf("failed to register player %s: %w", playerID, err)
		}
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game := entity.NewGame(gameID, mode, that.now())
	game.PlayerX = params.CreatorID
	game.PlayerO = params.OpponentID
	game.IsPrivate = params.IsPrivate
	game.Metadata = params.Metadata

	if params.OpponentID != "" || mode.IsAI() {
		game.Status = entity.StatusInProgress
	}

	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID, "mode", game.Mode, "status", game.Status)

	return game, nil
}

func validateCreateGame(params entity.CreateGameParams) (entity.GameMode, error) {
	fields := map[string]string{}

	mode, err := entity.ParseGameMode(params.Mode)
	if err != nil {
		fields["mode"] = "must be one of pvp, ai_easy, ai_medium, ai_hard"
	}

	if params.OpponentID != "" {
		switch {
		case mode.IsAI():
			fields["opponentId"] = "not allowed for ai games"
		case params.OpponentID == params.CreatorID:
			fields["opponentId"] = "must differ from the creator"
		}
	}

	if len(fields) > 0 {
		return "", apperror.NewValidationError(fields)
	}

	return mode, nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, gameID, requesterID string) error {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	if requesterID != "" {
		game, err := that.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to retrieve game from storage: %w", err)
		}

		if err = confirmSeated(game, requesterID); err != nil {
			return err
		}
	}

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "game_id", gameID)

	return nil
}

// confirmSeated allows anonymous requests and players seated in the game.
func confirmSeated(game *entity.Game, requesterID string) error {
	if requesterID == "" || game.HasPlayer(requesterID) {
		return nil
	}

	return fmt.Errorf("%w: player %s is not seated in game %s", apperror.ErrForbidden, requesterID, game.ID)
}

func (that *gameService) ListGames(ctx context.Context, params entity.ListGamesParams) (*entity.GamePage, error) {
	page, limit, filter, err := that.validateListGames(params)
	if err != nil {
		return nil, err
	}

	games, total, err := that.gameRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return &entity.GamePage{
		Games: games,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// validateListGames applies page=1 and the configured limit when they are zero.
func (that *gameService) validateListGames(params entity.ListGamesParams) (int, int, entity.GameFilter, error) {
	fields := map[string]string{}

	page := params.Page
	switch {
	case page == 0:
		page = 1
	case page < 0:
		fields["page"] = "must be a positive integer"
	}

	limit := params.Limit
	switch {
	case limit == 0:
		limit = that.defaultPageSize
	case limit < 0 || limit > MaxPageSize:
		fields["limit"] = fmt.Sprintf("must be between 1 and %d", MaxPageSize)
	}

	filter := entity.GameFilter{PlayerID: params.PlayerID}
	if params.Status != "" {
		status, err := entity.ParseGameStatus(params.Status)
		if err != nil {
			fields["status"] = "must be one of pending, in_progress, completed, abandoned"
		}
		filter.Status = status
	}

	if len(fields) > 0 {
		return 0, 0, entity.GameFilter{}, apperror.NewValidationError(fields)
	}

	return page, limit, filter, nil
}

func (that *gameService) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	if playerID == "" {
		return nil, apperror.NewValidationError(map[string]string{"playerId": "is required"})
	}

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	if game.HasPlayer(playerID) {
		return game, nil
	}

	if game.IsTerminal() {
		return nil, apperror.ErrGameFinished
	}

	switch {
	case game.PlayerX == "":
		game.PlayerX = playerID
	case game.PlayerO == "" && !game.Mode.IsAI():
		game.PlayerO = playerID
	default:
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	if _, err = that.playerService.EnsurePlayer(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to register player %s: %w", playerID, err)
	}

	if game.IsPending() && game.PlayerX != "" && game.PlayerO != "" {
		game.Status = entity.StatusInProgress
	}
	game.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("player joined game", "game_id", game.ID, "player_id", playerID, "status", game.Status)

	return game, nil
}

func (that *gameService) AbandonGame(ctx context.Context, gameID, requesterID string) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	if err = confirmSeated(game, requesterID); err != nil {
		return nil, err
	}

	if err = game.ConfirmPlayable(); err != nil {
		return nil, err
	}

	game.Status = entity.StatusAbandoned
	game.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game abandoned", "game_id", game.ID)

	return game, nil
}
