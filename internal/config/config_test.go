package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chamados-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "./meubanco.db", cfg.SQLite.Path)
	require.Equal(t, "0.0.0.0:3000", cfg.App.Addr())
	require.False(t, cfg.Redis.RelayEnabled())
}

func TestLoadPostgresDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/chamados")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, "postgres://localhost/chamados", cfg.Postgres.DSN)
}

func TestLoadPostgresDriverRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "oracle")

	_, err := config.Load()
	require.Error(t, err)
}

func TestRelayEnabledWithAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.Redis.RelayEnabled())
	require.Equal(t, "chamados.sync", cfg.Redis.RelayChannel)
}
