package rest

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const playerIDKey = "player_id"

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			logger.Info("http request", fields...)
			return nil
		},
	})
}

// authenticate reads an optional bearer token. Requests without one pass
// through anonymously; a token that fails to parse is rejected.
func (that *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || that.auth == nil {
			return next(ctx)
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return that.writeDomainError(ctx, apperror.ErrUnauthorized)
		}

		playerID, err := that.auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			that.logger.Debug("rejected token", "error", err)
			return that.writeDomainError(ctx, err)
		}

		ctx.Set(playerIDKey, playerID)

		return next(ctx)
	}
}

// authenticatedPlayer returns the player id carried by the request token, if any.
func authenticatedPlayer(ctx echo.Context) string {
	playerID, _ := ctx.Get(playerIDKey).(string)
	return playerID
}
