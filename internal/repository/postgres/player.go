package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type PlayerStore struct {
	pool *pgxpool.Pool
}

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &PlayerStore{pool: pool}
}

func (that *PlayerStore) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	const upsert = `
		INSERT INTO players (id, username, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`
	if _, err := that.pool.Exec(ctx, upsert, player.ID, player.Username, player.CreatedAt); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (that *PlayerStore) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	var player entity.Player

	err := that.pool.QueryRow(ctx, `SELECT id, username, created_at FROM players WHERE id = $1`, id).
		Scan(&player.ID, &player.Username, &player.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &entity.Player{}, apperror.ErrPlayerNotFound
	}
	if err != nil {
		return &entity.Player{}, fmt.Errorf("get player %s: %w", id, err)
	}

	return &player, nil
}
