package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BotModeCommands = "commands"
	BotModeMenu     = "menu"

	ListScopeOwn = "own"
	ListScopeAll = "all"
)

// Config is built once at startup and handed to app.New; nothing reads the
// environment after that.
type Config struct {
	App
	Database
	Redis
	Auth
	Bot
}

type App struct {
	Port            string        `env:"APP_PORT" env-default:"8080"`
	BindAddress     string        `env:"BIND_ADDRESS" env-default:""`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	LogDevelopment  bool          `env:"LOG_DEVELOPMENT" env-default:"false"`
	WebEnabled      bool          `env:"WEB_ENABLED" env-default:"true"`
	BotEnabled      bool          `env:"BOT_ENABLED" env-default:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
}

type Database struct {
	Driver       string `env:"DB_DRIVER" env-default:"mysql"`
	DSN          string `env:"DB_DSN" env-required:"true"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-required:"true"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
}

type Bot struct {
	Token         string        `env:"BOT_TOKEN" env-default:""`
	Mode          string        `env:"BOT_MODE" env-default:"commands"`
	ListScope     string        `env:"BOT_LIST_SCOPE" env-default:"own"`
	Workers       int           `env:"BOT_WORKERS" env-default:"1"`
	UpdateTimeout time.Duration `env:"BOT_UPDATE_TIMEOUT" env-default:"10s"`
	PendingTTL    time.Duration `env:"BOT_PENDING_TTL" env-default:"10m"`
	Debug         bool          `env:"BOT_DEBUG" env-default:"false"`
}

// New loads envFile (if present) into the process environment and decodes
// the environment into a Config.
func New(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Load: %w", err)
		}
	}

	conf := &Config{}
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if !c.WebEnabled && !c.BotEnabled {
		return errors.New("config: both WEB_ENABLED and BOT_ENABLED are off")
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.BotEnabled && c.Bot.Token == "" {
		return errors.New("config: BOT_TOKEN is not set")
	}
	switch c.Bot.Mode {
	case BotModeCommands, BotModeMenu:
	default:
		return fmt.Errorf("config: unknown BOT_MODE %q", c.Bot.Mode)
	}
	switch c.Bot.ListScope {
	case ListScopeOwn, ListScopeAll:
	default:
		return fmt.Errorf("config: unknown BOT_LIST_SCOPE %q", c.Bot.ListScope)
	}
	if c.Bot.Workers <= 0 {
		return fmt.Errorf("config: BOT_WORKERS must be positive, got %d", c.Bot.Workers)
	}
	return nil
}

// Addr is the listen address of the web front-end.
func (a App) Addr() string {
	return a.BindAddress + ":" + a.Port
}
