package report

import (
	"context"
	"io"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain/entity"
)

// PDFGenerator genera el PDF de un reporte (implementación en infrastructure/pdf).
type PDFGenerator interface {
	DailyReport(r *dto.DailyReportDTO) ([]byte, error)
	MonthlyReport(r *dto.MonthlyReportDTO) ([]byte, error)
}

// CSVWriter escribe reportes y listados en CSV (implementación en infrastructure/export).
type CSVWriter interface {
	DailyReport(w io.Writer, r *dto.DailyReportDTO) error
	MonthlyReport(w io.Writer, r *dto.MonthlyReportDTO) error
	Movements(w io.Writer, items []dto.MovementSummaryResponse) error
}

// MovementLister fuente del listado de movimientos para exportar (el libro de movimientos).
type MovementLister interface {
	ListMovements(ctx context.Context, filter entity.MovementFilter) ([]dto.MovementSummaryResponse, error)
}
