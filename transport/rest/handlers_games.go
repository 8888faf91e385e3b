package rest

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type createGameRequest struct {
	Mode       string         `json:"mode"`
	PlayerID   string         `json:"playerId"`
	OpponentID string         `json:"opponentId"`
	IsPrivate  bool           `json:"isPrivate"`
	Metadata   map[string]any `json:"metadata"`
}

type joinGameRequest struct {
	PlayerID string `json:"playerId"`
}

// actingPlayer prefers the token identity over the one named in the request.
func actingPlayer(ctx echo.Context, requested string) string {
	if playerID := authenticatedPlayer(ctx); playerID != "" {
		return playerID
	}
	return requested
}

func (that *Server) createGame(ctx echo.Context) error {
	var req createGameRequest
	if err := ctx.Bind(&req); err != nil {
		return that.writeDomainError(ctx, apperror.NewValidationError(map[string]string{"body": "must be a JSON object"}))
	}

	game, err := that.game.CreateGame(ctx.Request().Context(), entity.CreateGameParams{
		Mode:       req.Mode,
		CreatorID:  actingPlayer(ctx, req.PlayerID),
		OpponentID: req.OpponentID,
		IsPrivate:  req.IsPrivate,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, game)
}

func (that *Server) getGame(ctx echo.Context) error {
	game, err := that.game.GetGame(ctx.Request().Context(), ctx.Param("gameId"))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *Server) deleteGame(ctx echo.Context) error {
	if err := that.game.DeleteGame(ctx.Request().Context(), ctx.Param("gameId"), authenticatedPlayer(ctx)); err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (that *Server) listGames(ctx echo.Context) error {
	fields := map[string]string{}

	page, ok := queryInt(ctx, "page")
	if !ok {
		fields["page"] = "must be an integer"
	}

	limit, ok := queryInt(ctx, "limit")
	if !ok {
		fields["limit"] = "must be an integer"
	}

	if len(fields) > 0 {
		return that.writeDomainError(ctx, apperror.NewValidationError(fields))
	}

	result, err := that.game.ListGames(ctx.Request().Context(), entity.ListGamesParams{
		Page:     page,
		Limit:    limit,
		Status:   ctx.QueryParam("status"),
		PlayerID: ctx.QueryParam("playerId"),
	})
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	ctx.Response().Header().Set("X-Total-Count", strconv.Itoa(result.Total))

	return ctx.JSON(http.StatusOK, result)
}

func (that *Server) joinGame(ctx echo.Context) error {
	var req joinGameRequest
	if err := ctx.Bind(&req); err != nil {
		return that.writeDomainError(ctx, apperror.NewValidationError(map[string]string{"body": "must be a JSON object"}))
	}

	game, err := that.game.JoinGame(ctx.Request().Context(), ctx.Param("gameId"), actingPlayer(ctx, req.PlayerID))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *Server) abandonGame(ctx echo.Context) error {
	game, err := that.game.AbandonGame(ctx.Request().Context(), ctx.Param("gameId"), authenticatedPlayer(ctx))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

// queryInt returns 0 for an absent parameter and false for a malformed one.
func queryInt(ctx echo.Context, name string) (int, bool) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return value, true
}
