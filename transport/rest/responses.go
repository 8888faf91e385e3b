package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type domainError struct {
	target  error
	status  int
	code    string
	message string
}

// domainErrors is checked in order; the specific not-found errors come before ErrNotFound.
var domainErrors = []domainError{
	{apperror.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request"},
	{apperror.ErrInvalidCoordinates, http.StatusBadRequest, "INVALID_COORDINATES", apperror.ErrInvalidCoordinates.Error()},
	{apperror.ErrInvalidMark, http.StatusBadRequest, "INVALID_MARK", apperror.ErrInvalidMark.Error()},
	{apperror.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token"},
	{apperror.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "forbidden"},
	{apperror.ErrGameNotFound, http.StatusNotFound, "GAME_NOT_FOUND", "game not found"},
	{apperror.ErrPlayerNotFound, http.StatusNotFound, "PLAYER_NOT_FOUND", "player not found"},
	{apperror.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "not found"},
	{apperror.ErrSquareOccupied, http.StatusConflict, "SQUARE_OCCUPIED", apperror.ErrSquareOccupied.Error()},
	{apperror.ErrGameFinished, http.StatusConflict, "GAME_FINISHED", apperror.ErrGameFinished.Error()},
	{apperror.ErrNotYourTurn, http.StatusConflict, "NOT_YOUR_TURN", apperror.ErrNotYourTurn.Error()},
	{apperror.ErrGameIsFull, http.StatusConflict, "GAME_FULL", apperror.ErrGameIsFull.Error()},
	{apperror.ErrGameAlreadyExists, http.StatusConflict, "GAME_ALREADY_EXISTS", apperror.ErrGameAlreadyExists.Error()},
	{apperror.ErrConcurrentMove, http.StatusConflict, "CONCURRENT_MOVE", apperror.ErrConcurrentMove.Error()},
}

func writeError(ctx echo.Context, status int, code, message string) error {
	return ctx.JSON(status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

// writeDomainError maps an application error to its HTTP status and error code.
func (that *Server) writeDomainError(ctx echo.Context, err error) error {
	for _, de := range domainErrors {
		if !errors.Is(err, de.target) {
			continue
		}

		body := apiError{Code: de.code, Message: de.message}

		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			body.Fields = validationErr.Fields
		}

		return ctx.JSON(de.status, errorEnvelope{Error: body})
	}

	that.logger.Error("request failed",
		"method", ctx.Request().Method,
		"path", ctx.Path(),
		"error", err,
	)

	return writeError(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// httpErrorHandler renders echo's own errors (unknown route, bad method) in the same envelope.
func (that *Server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_"))
		_ = writeError(ctx, httpErr.Code, code, message)
		return
	}

	_ = that.writeDomainError(ctx, err)
}
