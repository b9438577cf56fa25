package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/regions?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")
}

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5, cfg.DBMaxConns)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins())
	assert.False(t, cfg.NeedsVault())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("FRONTEND_URL", "https://regions.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://regions.example.com")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database().Driver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, []string{"http://localhost:3000", "https://regions.example.com"}, cfg.Origins())
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing dsn":  {"DATABASE_URL": ""},
		"bad driver":   {"DB_DRIVER": "oracle"},
		"bad port":     {"PORT": "70000"},
		"bad level":    {"LOG_LEVEL": "loud"},
		"bad cost":     {"BCRYPT_COST": "2"},
		"bad node":     {"SNOWFLAKE_NODE": "4096"},
		"not a number": {"DB_MAX_CONNS": "many"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load(noDotenv(t))
			assert.Error(t, err)
		})
	}
}

func TestLoadDotenvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=file::memory:\nDB_DRIVER=sqlite\nJWT_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("DB_DRIVER")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "from-env", cfg.JWTSecret, "real environment wins over .env")
}

func TestRequireSessionSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/regions")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err, "migrations load config without a session secret")
	assert.Error(t, cfg.RequireSessionSecret())

	cfg.JWTSecret = "vault:secret/regions#jwt"
	assert.Error(t, cfg.RequireSessionSecret())

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.RequireSessionSecret())
}

type fakeReader map[string]string

func (f fakeReader) GetKV(_ context.Context, path, key string) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := Config{JWTSecret: "vault:secret/regions#jwt", DatabaseURL: "postgres://plain"}
	require.True(t, cfg.NeedsVault())

	require.NoError(t, cfg.ResolveSecrets(context.Background(), fakeReader{"secret/regions#jwt": "from-vault"}))
	assert.Equal(t, "from-vault", cfg.JWTSecret)
	assert.Equal(t, "postgres://plain", cfg.DatabaseURL)
	assert.False(t, cfg.NeedsVault())

	cfg = Config{JWTSecret: "vault:secret/regions#missing"}
	assert.Error(t, cfg.ResolveSecrets(context.Background(), fakeReader{}))

	cfg = Config{JWTSecret: "vault:secret/regions#empty"}
	assert.Error(t, cfg.ResolveSecrets(context.Background(), fakeReader{"secret/regions#empty": ""}))

	cfg = Config{JWTSecret: "vault:nokey"}
	assert.Error(t, cfg.ResolveSecrets(context.Background(), fakeReader{}))
}
