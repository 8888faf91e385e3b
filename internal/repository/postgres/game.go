package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

const uniqueViolation = "23505"

const gameColumns = `id, mode, status, board, current_turn, winner, player_x_id, player_o_id,
	is_private, metadata, move_count, created_at, updated_at, completed_at`

const upsertGame = `
	INSERT INTO games (` + gameColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		mode = EXCLUDED.mode,
		status = EXCLUDED.status,
		board = EXCLUDED.board,
		current_turn = EXCLUDED.current_turn,
		winner = EXCLUDED.winner,
		player_x_id = EXCLUDED.player_x_id,
		player_o_id = EXCLUDED.player_o_id,
		is_private = EXCLUDED.is_private,
		metadata = EXCLUDED.metadata,
		move_count = EXCLUDED.move_count,
		updated_at = EXCLUDED.updated_at,
		completed_at = EXCLUDED.completed_at
`

type GameStore struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) repository.GameRepository {
	return &GameStore{pool: pool}
}

func gameArgs(game *entity.Game) ([]any, error) {
	var metadata []byte
	if game.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(game.Metadata); err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
	}

	return []any{
		game.ID, string(game.Mode), string(game.Status), game.Board.String(),
		string(game.CurrentTurn), string(game.Winner), game.PlayerX, game.PlayerO,
		game.IsPrivate, metadata, game.MoveCount, game.CreatedAt, game.UpdatedAt, game.CompletedAt,
	}, nil
}

func (that *GameStore) Create(ctx context.Context, game *entity.Game) error {
	args, err := gameArgs(game)
	if err != nil {
		return err
	}

	const insert = `INSERT INTO games (` + gameColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err = that.pool.Exec(ctx, insert, args...); err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == uniqueViolation {
			return apperror.ErrGameAlreadyExists
		}
		return fmt.Errorf("insert game: %w", err)
	}

	return nil
}

func (that *GameStore) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args, err := gameArgs(game)
	if err != nil {
		return err
	}

	if _, err = that.pool.Exec(ctx, upsertGame, args...); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	return nil
}

func (that *GameStore) UpdateWithMove(ctx context.Context, game *entity.Game, move entity.Move) error {
	args, err := gameArgs(game)
	if err != nil {
		return err
	}

	tx, err := that.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var storedMoves int
	err = tx.QueryRow(ctx, `SELECT move_count FROM games WHERE id = $1 FOR UPDATE`, game.ID).Scan(&storedMoves)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("lock game: %w", err)
	}

	if storedMoves != move.MoveNumber-1 {
		return fmt.Errorf("%w: stored move count %d, move number %d", apperror.ErrConcurrentMove, storedMoves, move.MoveNumber)
	}

	if _, err = tx.Exec(ctx, upsertGame, args...); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	const insertMove = `
		INSERT INTO moves (game_id, move_number, player_id, mark, row_index, column_index, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err = tx.Exec(ctx, insertMove, game.ID, move.MoveNumber, move.PlayerID, string(move.Mark),
		move.Row, move.Column, move.Timestamp); err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == uniqueViolation {
			return fmt.Errorf("%w: move %d already stored", apperror.ErrConcurrentMove, move.MoveNumber)
		}
		return fmt.Errorf("insert move: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (that *GameStore) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	row := that.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)

	game, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return &entity.Game{}, apperror.ErrGameNotFound
	}
	if err != nil {
		return &entity.Game{}, fmt.Errorf("get game %s: %w", id, err)
	}

	return game, nil
}

func (that *GameStore) DeleteByID(ctx context.Context, id string) error {
	tag, err := that.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func (that *GameStore) List(ctx context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error) {
	const where = `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR player_x_id = $2 OR player_o_id = $2)
	`

	var total int
	if err := that.pool.QueryRow(ctx, `SELECT COUNT(*) FROM games `+where,
		string(filter.Status), filter.PlayerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	offset, ok := repository.Offset(page, pageSize)
	if !ok {
		return []*entity.Game{}, total, nil
	}

	rows, err := that.pool.Query(ctx, `SELECT `+gameColumns+` FROM games `+where+`
		ORDER BY created_at DESC, id ASC
		LIMIT $3 OFFSET $4`,
		string(filter.Status), filter.PlayerID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}

	games, err := collectGames(rows)
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

func (that *GameStore) ListMoves(ctx context.Context, gameID string) ([]entity.Move, error) {
	rows, err := that.pool.Query(ctx, `
		SELECT move_number, player_id, mark, row_index, column_index, played_at
		FROM moves
		WHERE game_id = $1
		ORDER BY move_number ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	moves := make([]entity.Move, 0)
	for rows.Next() {
		var (
			move entity.Move
			mark string
		)
		if err = rows.Scan(&move.MoveNumber, &move.PlayerID, &mark, &move.Row, &move.Column, &move.Timestamp); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		move.Mark = entity.Mark(mark)
		moves = append(moves, move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}

	return moves, nil
}

func (that *GameStore) ListCompleted(ctx context.Context, since time.Time) ([]*entity.Game, error) {
	rows, err := that.pool.Query(ctx, `SELECT `+gameColumns+` FROM games
		WHERE status = $1 AND completed_at IS NOT NULL AND completed_at >= $2
		ORDER BY completed_at ASC, id ASC`,
		string(entity.StatusCompleted), since)
	if err != nil {
		return nil, fmt.Errorf("list completed games: %w", err)
	}

	return collectGames(rows)
}

func collectGames(rows pgx.Rows) ([]*entity.Game, error) {
	defer rows.Close()

	games := make([]*entity.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return games, nil
}

func scanGame(row pgx.Row) (*entity.Game, error) {
	var (
		game                                     entity.Game
		mode, status, board, currentTurn, winner string
		metadata                                 []byte
	)

	if err := row.Scan(&game.ID, &mode, &status, &board, &currentTurn, &winner, &game.PlayerX, &game.PlayerO,
		&game.IsPrivate, &metadata, &game.MoveCount, &game.CreatedAt, &game.UpdatedAt, &game.CompletedAt); err != nil {
		return nil, err
	}

	parsed, err := entity.ParseBoard(board)
	if err != nil {
		return nil, err
	}

	game.Mode = entity.GameMode(mode)
	game.Status = entity.GameStatus(status)
	game.Board = parsed
	game.CurrentTurn = entity.Mark(currentTurn)
	game.Winner = entity.Winner(winner)

	if len(metadata) > 0 {
		if err = json.Unmarshal(metadata, &game.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return &game, nil
}
