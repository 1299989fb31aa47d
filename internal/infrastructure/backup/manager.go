// Package backup copias de seguridad del archivo SQLite: manuales, automáticas cada 24 h y restauración.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/rs/zerolog"
)

// Tipos de copia.
const (
	TypeManual     = "manual"
	TypeAutomatic  = "automatic"
	TypePreRestore = "pre_restore"
)

const (
	filePrefix   = "kontrol_"
	fileExt      = ".db"
	lastInfoFile = "last_backup.json"
	stampLayout  = "20060102_150405"
)

// Database lo que el gestor necesita de la base: copiar y reemplazar su contenido.
type Database interface {
	SnapshotTo(ctx context.Context, dest string) error
	RestoreFrom(ctx context.Context, src string) error
}

// Config parámetros del gestor.
type Config struct {
	Dir           string
	MaxFiles      int
	MinAge        time.Duration // antigüedad de la última copia para hacer una automática
	CheckInterval time.Duration
	InitialDelay  time.Duration // primera revisión tras arrancar
}

// Manager crea, lista, rota y restaura copias. Seguro para uso concurrente.
type Manager struct {
	db  Database
	cfg Config
	log zerolog.Logger
	now func() time.Time
	mu  sync.Mutex
}

// NewManager construye el gestor. Valores vacíos de cfg toman los por defecto (30 copias, 24 h, 1 h, 5 s).
func NewManager(db Database, cfg Config, log zerolog.Logger) *Manager {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 30
	}
	if cfg.MinAge <= 0 {
		cfg.MinAge = 24 * time.Hour
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 5 * time.Second
	}
	return &Manager{
		db:  db,
		cfg: cfg,
		log: log.With().Str("component", "backup").Logger(),
		now: time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Create hace una copia nueva, actualiza last_backup.json y rota las más viejas.
func (m *Manager) Create(ctx context.Context, manual bool) (*dto.BackupInfoDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: crear carpeta de copias: %w", domain.ErrStorage, err)
	}

	kind, tag := TypeAutomatic, "auto"
	if manual {
		kind, tag = TypeManual, "manual"
	}
	now := m.now()
	path := m.freePath(filePrefix + tag + "_" + now.Format(stampLayout))
	if err := m.db.SnapshotTo(ctx, path); err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat copia: %w", domain.ErrStorage, err)
	}

	info := &dto.BackupInfoDTO{
		Date: now.UTC(),
		File: filepath.Base(path),
		Size: st.Size(),
		Type: kind,
	}
	if err := m.writeLastInfo(info); err != nil {
		return nil, err
	}
	if err := m.rotate(); err != nil {
		m.log.Warn().Err(err).Msg("no se pudieron borrar copias viejas")
	}
	m.log.Info().Str("file", info.File).Int64("size", info.Size).Str("type", kind).Msg("copia creada")
	return info, nil
}

// freePath evita pisar una copia hecha en el mismo segundo.
func (m *Manager) freePath(base string) string {
	path := filepath.Join(m.cfg.Dir, base+fileExt)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path
		}
		path = filepath.Join(m.cfg.Dir, fmt.Sprintf("%s_%d%s", base, i, fileExt))
	}
}

// LastInfo datos de la última copia; (nil, nil) si nunca se hizo una.
func (m *Manager) LastInfo() (*dto.BackupInfoDTO, error) {
	raw, err := os.ReadFile(filepath.Join(m.cfg.Dir, lastInfoFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: leer %s: %w", domain.ErrStorage, lastInfoFile, err)
	}
	var info dto.BackupInfoDTO
	if err := json.Unmarshal(raw, &info); err != nil {
		// Archivo corrupto: se trata como si no hubiera copia previa.
		m.log.Warn().Err(err).Msg("last_backup.json ilegible")
		return nil, nil
	}
	return &info, nil
}

func (m *Manager) writeLastInfo(info *dto.BackupInfoDTO) error {
	raw, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(m.cfg.Dir, lastInfoFile), raw, 0o644); err != nil {
		return fmt.Errorf("%w: escribir %s: %w", domain.ErrStorage, lastInfoFile, err)
	}
	return nil
}

// ShouldAutoBackup true si no hay copia previa o la última tiene al menos MinAge.
func (m *Manager) ShouldAutoBackup(now time.Time) (bool, error) {
	last, err := m.LastInfo()
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return now.Sub(last.Date) >= m.cfg.MinAge, nil
}

// List copias en disco, más recientes primero.
func (m *Manager) List() ([]dto.BackupFileDTO, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []dto.BackupFileDTO{}, nil
		}
		return nil, fmt.Errorf("%w: leer carpeta de copias: %w", domain.ErrStorage, err)
	}
	out := make([]dto.BackupFileDTO, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, dto.BackupFileDTO{
			Name:    e.Name(),
			Size:    st.Size(),
			Created: st.ModTime().UTC(),
			Type:    typeFromName(e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// isBackupName solo los archivos que crea el gestor; la base viva nunca cuenta como copia.
func isBackupName(name string) bool {
	if filepath.Ext(name) != fileExt {
		return false
	}
	return strings.HasPrefix(name, filePrefix) || strings.HasPrefix(name, TypePreRestore+"_")
}

func typeFromName(name string) string {
	switch {
	case strings.HasPrefix(name, TypePreRestore+"_"):
		return TypePreRestore
	case strings.HasPrefix(name, filePrefix+"manual_"):
		return TypeManual
	default:
		return TypeAutomatic
	}
}

// rotate deja solo las MaxFiles copias más recientes.
func (m *Manager) rotate() error {
	files, err := m.List()
	if err != nil {
		return err
	}
	var errs []error
	for _, f := range files[min(len(files), m.cfg.MaxFiles):] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, f.Name)); err != nil {
			errs = append(errs, err)
			continue
		}
		m.log.Debug().Str("file", f.Name).Msg("copia vieja eliminada")
	}
	return errors.Join(errs...)
}

// Restore reemplaza la base con la copia name. Antes guarda el estado actual como pre_restore_*.
func (m *Manager) Restore(ctx context.Context, name string) (*dto.RestoreBackupResponse, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || !isBackupName(name) {
		return nil, fmt.Errorf("%w: nombre de copia no válido %q", domain.ErrInvalidInput, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src := filepath.Join(m.cfg.Dir, name)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: copia %s", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: stat copia: %w", domain.ErrStorage, err)
	}

	pre := m.freePath(TypePreRestore + "_" + m.now().Format(stampLayout))
	if err := m.db.SnapshotTo(ctx, pre); err != nil {
		return nil, err
	}
	if err := m.db.RestoreFrom(ctx, src); err != nil {
		return nil, err
	}
	m.log.Info().Str("file", name).Str("previous", filepath.Base(pre)).Msg("copia restaurada")
	return &dto.RestoreBackupResponse{Restored: name, PreviousBackup: filepath.Base(pre)}, nil
}

// Status resumen para la API.
func (m *Manager) Status() (*dto.BackupStatusDTO, error) {
	last, err := m.LastInfo()
	if err != nil {
		return nil, err
	}
	should, err := m.ShouldAutoBackup(m.now())
	if err != nil {
		return nil, err
	}
	return &dto.BackupStatusDTO{
		Enabled:      true,
		LastBackup:   last,
		ShouldBackup: should,
		BackupFolder: m.cfg.Dir,
		MaxBackups:   m.cfg.MaxFiles,
	}, nil
}

// CheckAndBackup hace una copia automática si corresponde. Devuelve true si la hizo.
func (m *Manager) CheckAndBackup(ctx context.Context) (bool, error) {
	should, err := m.ShouldAutoBackup(m.now())
	if err != nil || !should {
		return false, err
	}
	if _, err := m.Create(ctx, false); err != nil {
		return false, err
	}
	return true, nil
}

// Run revisa tras InitialDelay y luego cada CheckInterval hasta que ctx se cancele.
func (m *Manager) Run(ctx context.Context) {
	timer := time.NewTimer(m.cfg.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("copias automáticas detenidas")
			return
		case <-timer.C:
			if _, err := m.CheckAndBackup(ctx); err != nil {
				m.log.Error().Err(err).Msg("copia automática falló")
			}
			timer.Reset(m.cfg.CheckInterval)
		}
	}
}
