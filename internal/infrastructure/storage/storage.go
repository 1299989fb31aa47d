// Package storage abre el motor configurado (sqlite o postgres) y expone los puertos del dominio.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/jhoicas/kontrol/internal/infrastructure/backup"
	"github.com/jhoicas/kontrol/internal/infrastructure/postgres"
	"github.com/jhoicas/kontrol/internal/infrastructure/sqlite"
	"github.com/jhoicas/kontrol/pkg/config"
)

// ErrBackupUnavailable las copias solo existen con el motor sqlite y BACKUP_ENABLED.
var ErrBackupUnavailable = errors.New("copias de seguridad no disponibles con este motor")

// Store repositorios y TxRunner del motor abierto.
type Store struct {
	Driver    string
	Products  repository.ProductRepository
	Movements repository.MovementRepository
	Reports   repository.ReportRepository
	Tx        inventory.TxRunner

	backups *backup.Manager
	sqlite  *sqlite.DB
	pool    *pgxpool.Pool
	log     zerolog.Logger
}

// Open abre el motor y aplica las migraciones pendientes.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	log = log.With().Str("component", "storage").Str("driver", cfg.DB.Driver).Logger()

	switch cfg.DB.Driver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("storage: motor %q no soportado", cfg.DB.Driver)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.DB.SQLitePath, sqlite.Options{Debug: cfg.App.LogLevel == "trace"})
	if err != nil {
		return nil, err
	}
	g := db.Gorm()
	s := &Store{
		Driver:    config.DriverSQLite,
		Products:  sqlite.NewProductRepository(g),
		Movements: sqlite.NewMovementRepository(g),
		Reports:   sqlite.NewReportRepository(g),
		Tx:        sqlite.NewTxRunner(g),
		sqlite:    db,
		log:       log,
	}
	// una base en memoria no tiene archivo que respaldar
	if cfg.Backup.Enabled && cfg.DB.SQLitePath != sqlite.MemoryPath {
		s.backups = backup.NewManager(db, backup.Config{
			Dir:           cfg.Backup.Dir,
			MaxFiles:      cfg.Backup.MaxFiles,
			MinAge:        cfg.Backup.MinAge,
			CheckInterval: cfg.Backup.CheckInterval,
		}, log)
	}
	log.Info().Str("path", db.Path()).Bool("backups", s.backups != nil).Msg("base sqlite abierta")
	return s, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("storage: conexión a PostgreSQL: %w", err)
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Int("migrations", applied).Msg("base postgres lista")
	return &Store{
		Driver:    config.DriverPostgres,
		Products:  postgres.NewProductRepository(pool),
		Movements: postgres.NewMovementRepository(pool),
		Reports:   postgres.NewReportRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
		pool:      pool,
		log:       log,
	}, nil
}

// Backups devuelve el gestor de copias o ErrBackupUnavailable.
func (s *Store) Backups() (*backup.Manager, error) {
	if s.backups == nil {
		return nil, ErrBackupUnavailable
	}
	return s.backups, nil
}

// Ping verifica la conexión.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.sqlite.Ping(ctx)
}

// Close libera la conexión del motor.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		return nil
	}
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	return nil
}
