package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type authService interface {
	GenerateToken(playerID string) (string, error)
	ParseToken(token string) (string, error)
}

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo

	game usecase.TicTacToe
	auth authService
}

// New builds the HTTP API. auth may be nil, in which case tokens are neither issued nor read.
func New(logger *slog.Logger, game usecase.TicTacToe, auth authService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 30 * time.Second

	server := &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
		game:   game,
		auth:   auth,
	}

	e.HTTPErrorHandler = server.httpErrorHandler

	e.Use(middleware.RequestID())
	e.Use(requestLogger(server.logger))
	e.Use(middleware.Recover())
	e.Use(server.authenticate)

	server.routes()

	return server
}

func (that *Server) routes() {
	that.echo.GET("/ping", that.ping)

	that.echo.POST("/players", that.registerPlayer)
	that.echo.GET("/players/:playerId", that.getPlayer)
	that.echo.GET("/players/:playerId/stats", that.getPlayerStats)
	that.echo.GET("/leaderboard", that.getLeaderboard)

	games := that.echo.Group("/games")
	games.POST("", that.createGame)
	games.GET("", that.listGames)
	games.GET("/:gameId", that.getGame)
	games.DELETE("/:gameId", that.deleteGame)
	games.POST("/:gameId/join", that.joinGame)
	games.POST("/:gameId/abandon", that.abandonGame)

	games.GET("/:gameId/board", that.getBoard)
	games.GET("/:gameId/board/:row/:column", that.getSquare)
	games.PUT("/:gameId/board/:row/:column", that.putSquare)
	games.GET("/:gameId/moves", that.getMoves)
}

func (that *Server) Handler() http.Handler {
	return that.echo
}

func (that *Server) Start(port string) error {
	if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
