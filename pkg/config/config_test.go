package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/jhoicas/kontrol/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "kontrol.db", cfg.DB.SQLitePath)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.Equal(t, 30, cfg.Backup.MaxFiles)
	assert.Equal(t, time.Hour, cfg.Backup.CheckInterval)
	assert.Equal(t, 24*time.Hour, cfg.Backup.MinAge)
	assert.True(t, cfg.Backup.Enabled)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BACKUP_CHECK_INTERVAL", "15m")
	t.Setenv("BACKUP_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres://postgres:p%40ss@db:5433/kontrol?sslmode=disable", cfg.DB.ConnectionString())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Backup.CheckInterval)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoad_DriverInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_CopiasEnLaCarpetaDeLaBase(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "kontrol.db")

	for _, dir := range []string{".", "./"} {
		t.Setenv("BACKUP_DIR", dir)
		_, err := config.Load()
		assert.Error(t, err, "BACKUP_DIR=%q", dir)
	}

	t.Setenv("BACKUP_DIR", "backups")
	_, err := config.Load()
	require.NoError(t, err)

	// sin copias no importa dónde apunte
	t.Setenv("BACKUP_DIR", ".")
	t.Setenv("BACKUP_ENABLED", "false")
	_, err = config.Load()
	require.NoError(t, err)
}

// chdir is the go1.21 equivalent of testing.T.Chdir (added in go1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
