package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
server:
  name: ledger-test
  address: ":9090"
database:
  dsn: postgres://localhost/ledger
  max_open_conns: 5
listing:
  page_size: 25
session:
  ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ledger-test", cfg.Server.Name)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "postgres://localhost/ledger", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, 25, cfg.Listing.PageSize)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `server: {}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ledger", cfg.Server.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Listing.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.CleanupInterval)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("LEDGER_TEST_DSN", "postgres://env/ledger")
	path := writeConfigFile(t, `
database:
  dsn: ${LEDGER_TEST_DSN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/ledger", cfg.Database.DSN)
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: "${LEDGER_TEST_UNSET_VAR}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not: valid")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Empty(t, cfg.Database.DSN)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := Default()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("negative page size", func(t *testing.T) {
		cfg := Default()
		cfg.Listing.PageSize = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing.page_size")
	})

	t.Run("negative ttl", func(t *testing.T) {
		cfg := Default()
		cfg.Session.TTL = -time.Hour
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.ttl")
	})
}
