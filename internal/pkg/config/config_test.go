package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg := InitConfig("does-not-exist.env")

	assert.Equal(t, "bahikhata", cfg.App.Name)
	assert.Equal(t, 4444, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 15, cfg.JWT.Expiration)
	assert.Equal(t, 24*365, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 10, cfg.JWT.RefreshGrace)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "none", cfg.Cookie.SameSite)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FRONTEND_URLS", "https://a.example.com, https://b.example.com,,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg := InitConfig("")

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.Server.TrustedProxies)
}

func TestInitConfig_LoadsEnvFileLocally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_PORT=6390\nDB_DATABASE=ledger_local\n"), 0o600))

	t.Setenv("APP_ENV", "local")
	// godotenv never overrides variables that are already set, so clear them for the test
	t.Setenv("REDIS_PORT", "")
	t.Setenv("DB_DATABASE", "")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("DB_DATABASE")

	cfg := InitConfig(path)

	assert.Equal(t, 6390, cfg.Redis.Port)
	assert.Equal(t, "ledger_local", cfg.Database.Database)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b"))
}
