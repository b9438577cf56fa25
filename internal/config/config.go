// Package config loads the service configuration from the environment.
//
// Order: an optional .env file (never overriding real variables), then typed
// parsing with defaults, then validation. Secret fields may hold a
// vault:<mount>/<path>#<key> reference that ResolveSecrets replaces with the
// stored value.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/validation"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/vault"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/utilities"
)

type Config struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0" validate:"required"`
	Port            int           `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	BasePath        string        `env:"HTTP_BASE_PATH" envDefault:"/api"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	FrontendURL    string   `env:"FRONTEND_URL" validate:"omitempty,url"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	DBDriver       string        `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres mysql sqlite"`
	DatabaseURL    string        `env:"DATABASE_URL" validate:"required"`
	DBMaxConns     int           `env:"DB_MAX_CONNS" envDefault:"5" validate:"min=1"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBTimeout      time.Duration `env:"DB_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	DBAutoMigrate  bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h" validate:"gt=0"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12" validate:"min=4,max=31"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogDev        bool   `env:"LOG_DEV" envDefault:"false"`
	LogFile       string `env:"LOG_FILE"`
	SnowflakeNode int64  `env:"SNOWFLAKE_NODE" envDefault:"1" validate:"min=0,max=1023"`
}

// Load reads the given dotenv files (".env" when none are named; a missing
// file is not an error), then parses and validates the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validation.Raw().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireSessionSecret fails when JWT_SECRET is unset or still an unresolved
// vault reference. Only the API needs it; migrations run without one.
func (c Config) RequireSessionSecret() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case vault.IsRef(c.JWTSecret):
		return errors.New("JWT_SECRET vault reference was not resolved")
	}
	return nil
}

// SecretReader is satisfied by *vault.Client.
type SecretReader interface {
	GetKV(ctx context.Context, secretPath, key string) (string, error)
}

// NeedsVault reports whether any secret field holds a vault reference.
func (c Config) NeedsVault() bool {
	return vault.IsRef(c.JWTSecret) || vault.IsRef(c.DatabaseURL)
}

// ResolveSecrets replaces vault references in secret fields with their values.
func (c *Config) ResolveSecrets(ctx context.Context, r SecretReader) error {
	for name, field := range map[string]*string{"JWT_SECRET": &c.JWTSecret, "DATABASE_URL": &c.DatabaseURL} {
		if !vault.IsRef(*field) {
			continue
		}
		path, key, err := vault.ParseRef(*field)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		v, err := r.GetKV(ctx, path, key)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if v == "" {
			return fmt.Errorf("%s: vault secret %s#%s is empty", name, path, key)
		}
		*field = v
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Origins merges the CORS allow-list with FRONTEND_URL.
func (c Config) Origins() []string {
	out := make([]string, 0, len(c.AllowedOrigins)+1)
	for _, o := range append(slices.Clone(c.AllowedOrigins), c.FrontendURL) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) Database() database.Config {
	return database.Config{
		Driver:          c.DBDriver,
		DSN:             c.DatabaseURL,
		MaxConns:        c.DBMaxConns,
		ConnMaxLifetime: c.DBConnLifetime,
		Timeout:         c.DBTimeout,
	}
}

func (c Config) Logger() utilities.Config {
	return utilities.Config{Level: c.LogLevel, Dev: c.LogDev, File: c.LogFile}
}
