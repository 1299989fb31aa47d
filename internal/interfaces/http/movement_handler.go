package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/application/report"
)

// MovementHandler maneja el libro de movimientos.
type MovementHandler struct {
	ledger  *inventory.LedgerUseCase
	reports *report.ReportUseCase
	loc     *time.Location
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.LedgerUseCase, reports *report.ReportUseCase, loc *time.Location) *MovementHandler {
	return &MovementHandler{ledger: ledger, reports: reports, loc: loc}
}

// Register godoc
// @Summary      Registrar movimiento
// @Description  Entrada o salida con una o más líneas. Todo o nada.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "kind (entry|exit), description, lines"
// @Success      201   {object}  dto.IDResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	id, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), GetOperator(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id, Message: "movimiento registrado"})
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        kind        query  string  false  "entry | exit"
// @Param        product_id  query  int     false  "Solo movimientos con este producto"
// @Param        from        query  string  false  "Desde (inclusive), YYYY-MM-DD o RFC3339"
// @Param        to          query  string  false  "Hasta (exclusivo), YYYY-MM-DD o RFC3339"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter, msg := movementFilter(c, h.loc)
	if msg != "" {
		return badRequest(c, "VALIDATION", msg)
	}
	items, err := h.ledger.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Items: items, Total: len(items)})
}

// ExportCSV godoc
// @Summary      Exportar movimientos a CSV
// @Tags         movements
// @Security     Bearer
// @Produce      text/csv
// @Param        kind        query  string  false  "entry | exit"
// @Param        product_id  query  int     false  "Producto"
// @Param        from        query  string  false  "Desde"
// @Param        to          query  string  false  "Hasta (exclusivo)"
// @Success      200  {file}  file
// @Router       /api/movements/export.csv [get]
func (h *MovementHandler) ExportCSV(c *fiber.Ctx) error {
	filter, msg := movementFilter(c, h.loc)
	if msg != "" {
		return badRequest(c, "VALIDATION", msg)
	}
	var buf bytes.Buffer
	if err := h.reports.ExportMovementsCSV(c.UserContext(), filter, &buf); err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "text/csv; charset=utf-8", "movimientos.csv", buf.Bytes())
}

// Lines godoc
// @Summary      Líneas de un movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {array}   dto.MovementLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines [get]
func (h *MovementHandler) Lines(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	lines, err := h.ledger.GetMovementLines(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lines)
}

// Reverse godoc
// @Summary      Revertir movimiento
// @Description  Devuelve el stock de cada producto al valor previo al movimiento y lo elimina.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Reverse(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	if err := h.ledger.ReverseMovement(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "movimiento revertido"})
}

// EditLines godoc
// @Summary      Editar varias líneas de un movimiento
// @Description  Todas las ediciones se aplican en una sola transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del movimiento"
// @Param        body  body  dto.EditLinesRequest   true  "line_id, quantity, unit_price por línea"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines [put]
func (h *MovementHandler) EditLines(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.EditLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.ledger.EditMovementLinesFromRequest(c.UserContext(), id, in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "líneas actualizadas"})
}

// EditLine godoc
// @Summary      Editar una línea
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID de la línea"
// @Param        body  body  dto.EditLineRequest  true  "quantity, unit_price"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movement-lines/{id} [patch]
func (h *MovementHandler) EditLine(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.EditLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.ledger.EditMovementLine(c.UserContext(), id, in.Quantity, in.UnitPrice); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "línea actualizada"})
}

func sendFile(c *fiber.Ctx, contentType, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(body)
}
