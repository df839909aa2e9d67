// Package config loads process configuration from the environment. A .env
// file in the working directory, when present, is read first.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the full set of knobs for every subcommand.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	DBPath      string `env:"DB_PATH" envDefault:"./data/statesquiz.db"`
	RegionsFile string `env:"REGIONS_FILE"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"statesquiz_token"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	FeedbackTTL   time.Duration `env:"FEEDBACK_TTL" envDefault:"2s"`
	PaintDelay    time.Duration `env:"PAINT_DELAY" envDefault:"300ms"`
	SessionIdle   time.Duration `env:"SESSION_IDLE" envDefault:"2h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	SSHAddr    string        `env:"SSH_ADDR" envDefault:":2222"`
	SSHHostKey string        `env:"SSH_HOST_KEY"`
	SSHIdle    time.Duration `env:"SSH_IDLE" envDefault:"10m"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// Level parses LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment into a Config without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
