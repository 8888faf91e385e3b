package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type registerPlayerRequest struct {
	Username string `json:"username"`
}

type registerPlayerResponse struct {
	Player *entity.Player `json:"player"`
	Token  string         `json:"token,omitempty"`
}

func (that *Server) registerPlayer(ctx echo.Context) error {
	var req registerPlayerRequest
	if err := ctx.Bind(&req); err != nil {
		return that.writeDomainError(ctx, apperror.NewValidationError(map[string]string{"body": "must be a JSON object"}))
	}

	player, err := that.game.RegisterPlayer(ctx.Request().Context(), req.Username)
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	resp := registerPlayerResponse{Player: player}

	if that.auth != nil {
		if resp.Token, err = that.auth.GenerateToken(player.ID); err != nil {
			return that.writeDomainError(ctx, err)
		}
	}

	return ctx.JSON(http.StatusCreated, resp)
}

func (that *Server) getPlayer(ctx echo.Context) error {
	player, err := that.game.GetPlayer(ctx.Request().Context(), ctx.Param("playerId"))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, player)
}

func (that *Server) getPlayerStats(ctx echo.Context) error {
	stats, err := that.game.GetPlayerStats(ctx.Request().Context(), ctx.Param("playerId"))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stats)
}

func (that *Server) getLeaderboard(ctx echo.Context) error {
	limit, ok := queryInt(ctx, "limit")
	if !ok {
		return that.writeDomainError(ctx, apperror.NewValidationError(map[string]string{"limit": "must be an integer"}))
	}

	board, err := that.game.GetLeaderboard(ctx.Request().Context(), ctx.QueryParam("timeframe"), limit)
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, board)
}
