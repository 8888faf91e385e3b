package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/postgres"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	games   repository.GameRepository
	players repository.PlayerRepository
	close   func()
}

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	server := rest.New(logger, newTicTacToe(logger, conf, repos), newAuthService(conf))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage.Driver)
		return server.Start(conf.HTTPPort)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Application context canceled, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// newTicTacToe assembles the services over the given repositories.
func newTicTacToe(logger *slog.Logger, conf *config.Config, repos repositories) usecase.TicTacToe {
	locks := pkg.NewKeyLock()
	playerService := service.NewPlayerService(repos.players)

	return usecase.NewTicTacToe(
		service.NewGameService(logger, repos.games, playerService, locks, conf.Game.DefaultPageSize),
		service.NewGamePlayService(logger, repos.games, tictactoe.Rules{StrictTurnOrder: conf.Game.StrictTurnOrder}, locks),
		service.NewStatisticsService(logger, repos.games, repos.players, service.StatisticsOptions{
			PointsPerWin:        conf.Stats.PointsPerWin,
			AllowUnknownPlayers: conf.Stats.AllowUnknownPlayers,
		}),
		playerService,
	)
}

func newAuthService(conf *config.Config) service.AuthService {
	if conf.Auth.JWTSecretKey == "" {
		return nil
	}
	return service.NewAuthService(conf.Auth.JWTSecretKey)
}

func openRepositories(ctx context.Context, log *slog.Logger, conf *config.Config) (repositories, error) {
	switch conf.Storage.Driver {
	case config.DriverRedis:
		addr := conf.Redis.GetRedisAddr()

		redisStorage, err := storage.NewRedisStorage(ctx, addr)
		if err != nil {
			return repositories{}, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repositories{
			games:   repository.NewGameRepository(redisStorage.Connection),
			players: repository.NewPlayerRepository(redisStorage.Connection),
			close: func() {
				if err := redisStorage.Close(); err != nil {
					log.Error("could not close redis storage", "error", err)
				}
			},
		}, nil

	case config.DriverPostgres:
		postgresStorage, err := storage.NewPostgresStorage(ctx, conf.Postgres.DSN)
		if err != nil {
			return repositories{}, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		if err = postgresStorage.Init(ctx); err != nil {
			postgresStorage.Close()
			return repositories{}, fmt.Errorf("could not init postgres storage: %w", err)
		}

		return repositories{
			games:   postgres.NewGameRepository(postgresStorage.Connection),
			players: postgres.NewPlayerRepository(postgresStorage.Connection),
			close:   postgresStorage.Close,
		}, nil

	case config.DriverMemory:
		return repositories{
			games:   memory.NewGameRepository(),
			players: memory.NewPlayerRepository(),
			close:   func() {},
		}, nil

	default:
		return repositories{}, fmt.Errorf("%w: %q", config.ErrUnknownDriver, conf.Storage.Driver)
	}
}
