package http

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kontrol/internal/application/report"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatPDF  = "pdf"
)

// ReportHandler reportes diario, mensual e historial por producto.
type ReportHandler struct {
	uc  *report.ReportUseCase
	loc *time.Location
	now func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, loc *time.Location) *ReportHandler {
	return &ReportHandler{uc: uc, loc: loc, now: time.Now}
}

func reportFormat(c *fiber.Ctx) (string, bool) {
	f := strings.ToLower(c.Query("format", formatJSON))
	switch f {
	case formatJSON, formatCSV, formatPDF:
		return f, true
	}
	return "", false
}

// Daily godoc
// @Summary      Reporte diario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        date    query  string  false  "Día YYYY-MM-DD (por defecto hoy)"
// @Param        format  query  string  false  "json | csv | pdf"  default(json)
// @Success      200  {object}  dto.DailyReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	format, ok := reportFormat(c)
	if !ok {
		return badRequest(c, "VALIDATION", "format debe ser json, csv o pdf")
	}
	day := h.now().In(h.loc)
	if s := c.Query("date"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, h.loc)
		if err != nil {
			return badRequest(c, "VALIDATION", "date inválida (YYYY-MM-DD)")
		}
		day = t
	}
	ctx := c.UserContext()
	name := "reporte_diario_" + day.Format("20060102")

	switch format {
	case formatCSV:
		var buf bytes.Buffer
		if err := h.uc.ExportDailyCSV(ctx, day, &buf); err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "text/csv; charset=utf-8", name+".csv", buf.Bytes())
	case formatPDF:
		b, err := h.uc.ExportDailyPDF(ctx, day)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "application/pdf", name+".pdf", b)
	}
	out, err := h.uc.Daily(ctx, day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Reporte mensual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        year    query  int     false  "Año (por defecto el actual)"
// @Param        month   query  int     false  "Mes 1-12 (por defecto el actual)"
// @Param        format  query  string  false  "json | csv | pdf"  default(json)
// @Success      200  {object}  dto.MonthlyReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	format, ok := reportFormat(c)
	if !ok {
		return badRequest(c, "VALIDATION", "format debe ser json, csv o pdf")
	}
	now := h.now().In(h.loc)
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	ctx := c.UserContext()
	name := fmt.Sprintf("reporte_mensual_%04d%02d", year, month)

	switch format {
	case formatCSV:
		var buf bytes.Buffer
		if err := h.uc.ExportMonthlyCSV(ctx, year, month, &buf); err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "text/csv; charset=utf-8", name+".csv", buf.Bytes())
	case formatPDF:
		b, err := h.uc.ExportMonthlyPDF(ctx, year, month)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "application/pdf", name+".pdf", b)
	}
	out, err := h.uc.Monthly(ctx, year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductHistory godoc
// @Summary      Historial de un producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id    path   int     true   "ID del producto"
// @Param        from  query  string  false  "Desde (inclusive)"
// @Param        to    query  string  false  "Hasta (exclusivo)"
// @Success      200  {array}   dto.ProductHistoryEntryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/products/{id}/history [get]
func (h *ReportHandler) ProductHistory(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	from, ok := queryTime(c, "from", h.loc)
	if !ok {
		return badRequest(c, "VALIDATION", "from inválido")
	}
	to, ok := queryTime(c, "to", h.loc)
	if !ok {
		return badRequest(c, "VALIDATION", "to inválido")
	}
	out, err := h.uc.ProductHistory(c.UserContext(), id, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
