package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  Storage  `yaml:"storage"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Game     Game     `yaml:"game"`
	Stats    Stats    `yaml:"stats"`
	Auth     Auth     `yaml:"auth"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Postgres struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type Game struct {
	// StrictTurnOrder rejects a move whose mark is not the current turn.
	StrictTurnOrder bool `yaml:"strict-turn-order" env:"GAME_STRICT_TURN_ORDER" env-default:"false"`
	DefaultPageSize int  `yaml:"default-page-size" env:"GAME_DEFAULT_PAGE_SIZE" env-default:"20"`
}

type Stats struct {
	PointsPerWin        int  `yaml:"points-per-win" env:"STATS_POINTS_PER_WIN" env-default:"10"`
	AllowUnknownPlayers bool `yaml:"allow-unknown-players" env:"STATS_ALLOW_UNKNOWN_PLAYERS" env-default:"false"`
}

type Auth struct {
	// JWTSecretKey enables token issuing and checking when set.
	JWTSecretKey string `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY"`
}

// Load reads the yaml file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) validate() error {
	switch that.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if that.Postgres.DSN == "" {
			return errors.New("postgres dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, that.Storage.Driver)
	}

	if that.Game.DefaultPageSize < 1 || that.Game.DefaultPageSize > 100 {
		return fmt.Errorf("game default page size must be between 1 and 100, got %d", that.Game.DefaultPageSize)
	}

	if that.Stats.PointsPerWin < 1 {
		return fmt.Errorf("stats points per win must be positive, got %d", that.Stats.PointsPerWin)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
