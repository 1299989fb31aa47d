package dto

import "time"

// BackupInfoDTO datos de un respaldo (también es el contenido de last_backup.json).
type BackupInfoDTO struct {
	Date time.Time `json:"date"`
	File string    `json:"file"`
	Size int64     `json:"size"`
	Type string    `json:"type"` // manual | automatic
}

// BackupFileDTO un archivo de respaldo en disco.
type BackupFileDTO struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
	Type    string    `json:"type"`
}

// BackupStatusDTO estado del sistema de respaldos.
type BackupStatusDTO struct {
	Enabled      bool           `json:"enabled"`
	LastBackup   *BackupInfoDTO `json:"last_backup"`
	ShouldBackup bool           `json:"should_backup"`
	BackupFolder string         `json:"backup_folder"`
	MaxBackups   int            `json:"max_backups"`
}

// RestoreBackupRequest body para POST /api/backups/restore.
type RestoreBackupRequest struct {
	File string `json:"file"`
}

// RestoreBackupResponse resultado de una restauración.
type RestoreBackupResponse struct {
	Restored       string `json:"restored"`
	PreviousBackup string `json:"previous_backup"`
}
