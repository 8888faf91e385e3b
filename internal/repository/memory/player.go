package memory

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type playerStore struct {
	mu      sync.RWMutex
	players map[string]entity.Player
}

func NewPlayerRepository() repository.PlayerRepository {
	return &playerStore{
		players: make(map[string]entity.Player),
	}
}

func (that *playerStore) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = *player

	return nil
}

func (that *playerStore) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return &entity.Player{}, apperror.ErrPlayerNotFound
	}

	return &player, nil
}
