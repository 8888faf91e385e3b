package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errStorageDown = errors.New("storage down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockGameRepo) UpdateWithMove(ctx context.Context, game *entity.Game, move entity.Move) error {
	return m.Called(ctx, game, move).Error(0)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGameRepo) List(ctx context.Context, filter entity.GameFilter, page, pageSize int) ([]*entity.Game, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Int(1), args.Error(2)
}

func (m *mockGameRepo) ListMoves(ctx context.Context, gameID string) ([]entity.Move, error) {
	args := m.Called(ctx, gameID)
	moves, _ := args.Get(0).([]entity.Move)
	return moves, args.Error(1)
}

func (m *mockGameRepo) ListCompleted(ctx context.Context, since time.Time) ([]*entity.Game, error) {
	args := m.Called(ctx, since)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

type mockPlayerRepo struct {
	mock.Mock
}

func (m *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	return m.Called(ctx, player).Error(0)
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := m.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}
