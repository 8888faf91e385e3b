package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	Connection *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStorage{Connection: pool}, nil
}

// Init creates the tables the game store needs; running it twice is harmless.
func (that *PostgresStorage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id           TEXT PRIMARY KEY,
			mode         TEXT NOT NULL,
			status       TEXT NOT NULL,
			board        CHAR(9) NOT NULL,
			current_turn TEXT NOT NULL,
			winner       TEXT NOT NULL,
			player_x_id  TEXT NOT NULL DEFAULT '',
			player_o_id  TEXT NOT NULL DEFAULT '',
			is_private   BOOLEAN NOT NULL DEFAULT FALSE,
			metadata     JSONB,
			move_count   INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS games_created_at_idx ON games (created_at DESC, id)`,
		`CREATE INDEX IF NOT EXISTS games_completed_at_idx ON games (completed_at) WHERE status = 'completed'`,
		`CREATE TABLE IF NOT EXISTS moves (
			game_id     TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
			move_number INTEGER NOT NULL,
			player_id   TEXT NOT NULL,
			mark        CHAR(1) NOT NULL,
			row_index   INTEGER NOT NULL,
			column_index INTEGER NOT NULL,
			played_at   TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (game_id, move_number)
		)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.Exec(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *PostgresStorage) Close() {
	that.Connection.Close()
}
