package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

const maxUsernameLength = 64

type PlayerService interface {
	CreatePlayer(ctx context.Context, username string) (*entity.Player, error)
	// EnsurePlayer returns the player with id, registering it first if unknown.
	EnsurePlayer(ctx context.Context, id string) (*entity.Player, error)

	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
	now        func() time.Time
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		now:        time.Now,
	}
}

func (that *playerService) CreatePlayer(ctx context.Context, username string) (*entity.Player, error) {
	username = strings.TrimSpace(username)
	if len(username) > maxUsernameLength {
		return nil, apperror.NewValidationError(map[string]string{
			"username": fmt.Sprintf("must be at most %d characters", maxUsernameLength),
		})
	}

	playerID, err := pkg.GeneratePlayerID()
	if err != nil {
		return nil, fmt.Errorf("error generating player ID: %w", err)
	}

	player := &entity.Player{
		ID:        playerID,
		Username:  username,
		CreatedAt: that.now(),
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	return player, nil
}

func (that *playerService) EnsurePlayer(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err == nil {
		return player, nil
	}

	if !errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	player = &entity.Player{
		ID:        id,
		CreatedAt: that.now(),
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve player from storage: %w", err)
	}

	return player, nil
}
