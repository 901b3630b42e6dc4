package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DATABASE_URL", "SERVER_ADDR", "JWT_SECRET", "ACCESS_TOKEN_TTL", "CORS_ORIGINS", "ADMIN_EMAIL", "ADMIN_PASSWORD", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "storefront-dev.sqlite", cfg.Database.URL)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "supersecret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "short")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadCLI(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com/")
	t.Setenv("STOREFRONT_TOKEN_STORE", "")
	t.Setenv("STOREFRONT_LOG_LEVEL", "")
	t.Setenv("STOREFRONT_TIMEOUT", "5s")

	cfg, err := LoadCLI()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.APIURL)
	assert.Equal(t, "keyring", cfg.TokenStore)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadCLI_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	unsetEnv(t, "STOREFRONT_TOKEN_STORE")
	require.NoError(t, writeFile(dir+"/.env", "STOREFRONT_TOKEN_STORE=file\n"))

	cfg, err := LoadCLI()
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.TokenStore)
}
