package repository_test

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/repositorytest"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestPlayerRepository(t *testing.T) {
	repositorytest.PlayerRepository(t, func(t *testing.T) (context.Context, repository.PlayerRepository) {
		ctx, st := suite.New(t)
		return ctx, repository.NewPlayerRepository(st.Storage)
	})
}
