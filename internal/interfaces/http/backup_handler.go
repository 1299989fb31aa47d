package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kontrol/internal/application/dto"
)

// BackupService lo que la API usa del gestor de copias (infrastructure/backup.Manager).
type BackupService interface {
	Create(ctx context.Context, manual bool) (*dto.BackupInfoDTO, error)
	List() ([]dto.BackupFileDTO, error)
	Status() (*dto.BackupStatusDTO, error)
	Restore(ctx context.Context, name string) (*dto.RestoreBackupResponse, error)
}

// BackupHandler copias de seguridad. svc nil = motor sin copias (postgres o memoria).
type BackupHandler struct {
	svc BackupService
}

// NewBackupHandler construye el handler.
func NewBackupHandler(svc BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

func (h *BackupHandler) unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Code: "BACKUP_UNAVAILABLE", Message: "copias de seguridad no disponibles con este motor",
	})
}

// Create godoc
// @Summary      Crear copia manual
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.BackupInfoDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/backups [post]
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	if h.svc == nil {
		return h.unavailable(c)
	}
	info, err := h.svc.Create(c.UserContext(), true)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// List godoc
// @Summary      Listar copias
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BackupFileDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/backups [get]
func (h *BackupHandler) List(c *fiber.Ctx) error {
	if h.svc == nil {
		return h.unavailable(c)
	}
	files, err := h.svc.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(files)
}

// Status godoc
// @Summary      Estado de las copias
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupStatusDTO
// @Router       /api/backups/status [get]
func (h *BackupHandler) Status(c *fiber.Ctx) error {
	if h.svc == nil {
		return c.JSON(dto.BackupStatusDTO{Enabled: false})
	}
	st, err := h.svc.Status()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// Restore godoc
// @Summary      Restaurar una copia
// @Description  Guarda el estado actual como pre_restore_* y reemplaza la base con la copia indicada.
// @Tags         backups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreBackupRequest  true  "Nombre del archivo"
// @Success      200   {object}  dto.RestoreBackupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/backups/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	if h.svc == nil {
		return h.unavailable(c)
	}
	var in dto.RestoreBackupRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.Restore(c.UserContext(), in.File)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
