// Package sqlite almacenamiento embebido (archivo único) sobre gorm + SQLite. Es el driver por defecto.
package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath abre una base en memoria (tests).
const MemoryPath = ":memory:"

// Options apertura de la base.
type Options struct {
	// Debug registra cada consulta SQL de gorm.
	Debug bool
}

// DB conexión abierta al archivo SQLite.
type DB struct {
	gorm *gorm.DB
	path string
}

// Open abre (o crea) el archivo, aplica migraciones pendientes y deja una sola conexión abierta:
// SQLite serializa escrituras y así las transacciones nunca se pisan dentro del proceso.
func Open(ctx context.Context, path string, opts Options) (*DB, error) {
	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	gdb, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{gorm: gdb, path: path}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000"
	if path == MemoryPath {
		return "file::memory:?" + params
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + params
}

func (db *DB) migrate(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Gorm devuelve el *gorm.DB subyacente.
func (db *DB) Gorm() *gorm.DB { return db.gorm }

// Path ruta del archivo (o ":memory:").
func (db *DB) Path() string { return db.path }

// Ping verifica la conexión.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close cierra la conexión.
func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SnapshotTo escribe una copia consistente de la base en dest (VACUUM INTO). dest no debe existir.
func (db *DB) SnapshotTo(ctx context.Context, dest string) error {
	if err := db.gorm.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error; err != nil {
		return wrapErr("vacuum into", err)
	}
	return nil
}

// RestoreFrom reemplaza todo el contenido con el de otro archivo SQLite, en una sola transacción.
// La conexión sigue abierta, no hace falta reiniciar.
func (db *DB) RestoreFrom(ctx context.Context, src string) error {
	conn := db.gorm.WithContext(ctx)
	if err := conn.Exec("ATTACH DATABASE ? AS bk", src).Error; err != nil {
		return wrapErr("attach backup", err)
	}
	defer conn.Exec("DETACH DATABASE bk")

	err := conn.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM main.movement_lines",
			"DELETE FROM main.movements",
			"DELETE FROM main.products",
			"INSERT INTO main.products SELECT id, name, thumbnail, stock, active, created_at FROM bk.products",
			"INSERT INTO main.movements SELECT id, kind, description, line_count, total_amount, created_by, created_at FROM bk.movements",
			"INSERT INTO main.movement_lines SELECT id, movement_id, product_id, quantity, unit_price, subtotal, stock_before, stock_after FROM bk.movement_lines",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("restore backup", err)
	}
	return nil
}
