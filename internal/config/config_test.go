package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/straye-as/elevator-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// inTempDir runs Load away from any config.json or .env in the repo
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "elevator-api", cfg.Auth.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "0 0 6 * * *", cfg.Jobs.InventoryScanCron)
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
	assert.Equal(t, "DENY", cfg.Security.FrameOptions)
}

func TestLoad_ConfigFileAndEnvironment(t *testing.T) {
	dir := inTempDir(t)
	configJSON := `{"app": {"port": 9090}, "storage": {"maxUploadSizeMB": 5}, "auth": {"issuer": "lifts"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(configJSON), 0o600))
	t.Setenv("APP_ENVIRONMENT", "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, int64(5), cfg.Storage.MaxUploadSizeMB)
	assert.Equal(t, "lifts", cfg.Auth.Issuer)
	assert.Equal(t, "staging", cfg.App.Environment)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	db := config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "lifts", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=lifts sslmode=require", db.ConnectionString())
}

func TestLoadWithSecrets(t *testing.T) {
	t.Run("vault switch off keeps environment values", func(t *testing.T) {
		inTempDir(t)
		t.Setenv("USE_AZURE_KEY_VAULT", "false")
		t.Setenv("APP_ENVIRONMENT", "production")
		t.Setenv("ADMIN_API_KEY", "env-key")

		cfg, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.Auth.APIKey)
	})

	t.Run("development never uses the vault", func(t *testing.T) {
		inTempDir(t)
		t.Setenv("USE_AZURE_KEY_VAULT", "true")
		t.Setenv("APP_ENVIRONMENT", "development")

		_, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
		assert.NoError(t, err)
	})

	t.Run("vault without a name fails", func(t *testing.T) {
		inTempDir(t)
		t.Setenv("USE_AZURE_KEY_VAULT", "true")
		t.Setenv("APP_ENVIRONMENT", "staging")
		t.Setenv("AZURE_KEY_VAULT_NAME", "")

		_, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
		assert.ErrorContains(t, err, "AZURE_KEY_VAULT_NAME")
	})
}
