package rest

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type squareResponse struct {
	Row    int         `json:"row"`
	Column int         `json:"column"`
	Mark   entity.Mark `json:"mark"`
}

type putSquareRequest struct {
	Mark string `json:"mark"`
}

type movesResponse struct {
	GameID string        `json:"gameId"`
	Moves  []entity.Move `json:"moves"`
}

// coordinates parses the row and column path segments. A segment that is not
// a number becomes 0 so the game lookup still runs first and the range check rejects it.
func coordinates(ctx echo.Context) (int, int) {
	row, err := strconv.Atoi(ctx.Param("row"))
	if err != nil {
		row = 0
	}

	column, err := strconv.Atoi(ctx.Param("column"))
	if err != nil {
		column = 0
	}

	return row, column
}

func (that *Server) getBoard(ctx echo.Context) error {
	state, err := that.game.GetBoard(ctx.Request().Context(), ctx.Param("gameId"))
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, state)
}

func (that *Server) getSquare(ctx echo.Context) error {
	row, column := coordinates(ctx)

	mark, err := that.game.GetSquare(ctx.Request().Context(), ctx.Param("gameId"), row, column)
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, squareResponse{Row: row, Column: column, Mark: mark})
}

func (that *Server) putSquare(ctx echo.Context) error {
	var req putSquareRequest
	if err := ctx.Bind(&req); err != nil {
		return that.writeDomainError(ctx, apperror.NewValidationError(map[string]string{"body": "must be a JSON object"}))
	}

	row, column := coordinates(ctx)

	state, err := that.game.PutSquare(ctx.Request().Context(), ctx.Param("gameId"), row, column, req.Mark)
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, state)
}

func (that *Server) getMoves(ctx echo.Context) error {
	gameID := ctx.Param("gameId")

	moves, err := that.game.GetMoves(ctx.Request().Context(), gameID)
	if err != nil {
		return that.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, movesResponse{GameID: gameID, Moves: moves})
}
