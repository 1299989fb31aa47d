package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/infrastructure/sqlite"
	"github.com/jhoicas/kontrol/internal/infrastructure/storage"
	"github.com/jhoicas/kontrol/pkg/config"
)

func sqliteConfig(path string, backups bool, dir string) *config.Config {
	return &config.Config{
		DB: config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path},
		Backup: config.BackupConfig{
			Enabled: backups, Dir: dir, MaxFiles: 3,
		},
	}
}

func TestOpen_SQLiteConCopias(t *testing.T) {
	dir := t.TempDir()
	cfg := sqliteConfig(filepath.Join(dir, "kontrol.db"), true, filepath.Join(dir, "backups"))

	s, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, config.DriverSQLite, s.Driver)
	require.NoError(t, s.Ping(context.Background()))

	p, err := s.Products.GetByID(context.Background(), entity.ExternalExpenseProductID)
	require.NoError(t, err)
	require.NotNil(t, p)

	m, err := s.Backups()
	require.NoError(t, err)
	info, err := m.Create(context.Background(), true)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "backups", info.File))
}

func TestOpen_MemoriaSinCopias(t *testing.T) {
	s, err := storage.Open(context.Background(), sqliteConfig(sqlite.MemoryPath, true, t.TempDir()), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Backups()
	assert.ErrorIs(t, err, storage.ErrBackupUnavailable)
}

func TestOpen_CopiasDeshabilitadas(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.Open(context.Background(), sqliteConfig(filepath.Join(dir, "k.db"), false, dir), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Backups()
	assert.ErrorIs(t, err, storage.ErrBackupUnavailable)
}

func TestOpen_MotorDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), &config.Config{DB: config.DBConfig{Driver: "mysql"}}, zerolog.Nop())
	assert.Error(t, err)
}
