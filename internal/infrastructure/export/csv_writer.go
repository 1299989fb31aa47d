// Package export escribe reportes y listados de movimientos en CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/kontrol/internal/application/dto"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Option configura el CSVWriter.
type Option func(*CSVWriter)

// WithSeparator cambia el separador de campos (por defecto ',').
func WithSeparator(r rune) Option {
	return func(w *CSVWriter) { w.comma = r }
}

// WithLatin1 codifica la salida en Windows-1252 en lugar de UTF-8 con BOM.
// Útil para versiones de Excel que no reconocen el BOM.
func WithLatin1() Option {
	return func(w *CSVWriter) { w.latin1 = true }
}

// CSVWriter implementa report.CSVWriter.
type CSVWriter struct {
	comma  rune
	latin1 bool
}

// NewCSVWriter construye el writer.
func NewCSVWriter(opts ...Option) *CSVWriter {
	w := &CSVWriter{comma: ','}
	for _, o := range opts {
		o(w)
	}
	return w
}

// DailyReport escribe una fila por producto seguida de la fila de totales.
func (c *CSVWriter) DailyReport(w io.Writer, r *dto.DailyReportDTO) error {
	if r == nil {
		return fmt.Errorf("export: reporte diario nil")
	}
	rows := [][]string{{"fecha", "producto_id", "producto", "unidades_vendidas", "ventas",
		"unidades_compradas", "compras", "stock_actual", "ganancia"}}
	day := r.Date.Format(dateLayout)
	for _, p := range r.Products {
		rows = append(rows, []string{
			day, itoa(p.ProductID), p.ProductName,
			itoa(p.UnitsSold), money(p.SalesTotal),
			itoa(p.UnitsBought), money(p.PurchasesTotal),
			itoa(p.CurrentStock), money(p.Profit),
		})
	}
	rows = append(rows, summaryRow(day, r.Summary, 9))
	return c.write(w, rows)
}

// MonthlyReport escribe la tabla de productos del mes y luego la tabla por día.
func (c *CSVWriter) MonthlyReport(w io.Writer, r *dto.MonthlyReportDTO) error {
	if r == nil {
		return fmt.Errorf("export: reporte mensual nil")
	}
	period := fmt.Sprintf("%04d-%02d", r.Year, r.Month)
	rows := [][]string{{"mes", "producto_id", "producto", "unidades_vendidas", "ventas",
		"unidades_compradas", "compras", "stock_actual", "ganancia", "dias_con_ventas", "dias_con_compras"}}
	for _, p := range r.Products {
		rows = append(rows, []string{
			period, itoa(p.ProductID), p.ProductName,
			itoa(p.UnitsSold), money(p.SalesTotal),
			itoa(p.UnitsBought), money(p.PurchasesTotal),
			itoa(p.CurrentStock), money(p.Profit),
			strconv.Itoa(p.DaysWithSales), strconv.Itoa(p.DaysWithPurchases),
		})
	}
	rows = append(rows, summaryRow(period, r.Summary, 11))

	// bloque por día tras una fila vacía
	rows = append(rows, []string{}, []string{"fecha", "productos", "ventas", "compras", "ganancia"})
	for _, d := range r.Days {
		rows = append(rows, []string{
			d.Date.Format(dateLayout), strconv.Itoa(d.DistinctProducts),
			money(d.Sales), money(d.Purchases), money(d.Profit),
		})
	}
	return c.write(w, rows)
}

// Movements escribe el listado de movimientos. Productos y cantidades van unidos por " | ".
func (c *CSVWriter) Movements(w io.Writer, items []dto.MovementSummaryResponse) error {
	rows := [][]string{{"id", "fecha", "tipo", "descripcion", "lineas", "productos",
		"cantidades", "cantidad_total", "total", "usuario"}}
	for _, m := range items {
		qty := make([]string, len(m.Quantities))
		for i, q := range m.Quantities {
			qty[i] = itoa(q)
		}
		rows = append(rows, []string{
			itoa(m.ID), m.CreatedAt.Format(dateTimeLayout), m.Kind, m.Description,
			strconv.Itoa(m.LineCount), strings.Join(m.ProductNames, " | "),
			strings.Join(qty, " | "), itoa(m.TotalQuantity), money(m.TotalAmount), m.CreatedBy,
		})
	}
	return c.write(w, rows)
}

func (c *CSVWriter) write(w io.Writer, rows [][]string) error {
	if !c.latin1 {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("export: escribir BOM: %w", err)
		}
		return c.writeRows(w, rows)
	}

	// caracteres fuera de Windows-1252 se reemplazan en lugar de abortar
	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	if err := c.writeRows(tw, rows); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("export: codificar csv: %w", err)
	}
	return nil
}

func (c *CSVWriter) writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = c.comma
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export: escribir csv: %w", err)
	}
	return nil
}

func summaryRow(period string, s dto.ReportSummaryDTO, width int) []string {
	row := make([]string, width)
	row[0] = period
	row[2] = "TOTAL"
	row[4] = money(s.TotalSales)
	row[6] = money(s.TotalPurchases)
	row[8] = money(s.TotalProfit)
	return row
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func money(d decimal.Decimal) string { return d.StringFixed(2) }
