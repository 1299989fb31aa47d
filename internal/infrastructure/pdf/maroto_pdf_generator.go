// Package pdf genera los reportes diario y mensual en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte   │  Período + fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ventas / Compras / Ganancia / Productos activos   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Vend. | Ventas | Comp. | Compras | ...   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  (mensual) TABLA DÍAS: Fecha | Prod. | Ventas | Compras     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/kontrol/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author  string
	printer *message.Printer
	now     func() time.Time
}

// NewMarotoReportGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	if author == "" {
		author = "Kontrol"
	}
	return &MarotoReportGenerator{
		author:  author,
		printer: message.NewPrinter(language.Spanish),
		now:     time.Now,
	}
}

// DailyReport genera el PDF del reporte de un día.
func (g *MarotoReportGenerator) DailyReport(r *dto.DailyReportDTO) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte diario nil")
	}
	title := "REPORTE DIARIO"
	period := "Día " + r.Date.Format("02/01/2006")

	m := maroto.New(g.config(title))
	g.addHeader(m, title, period)
	m.AddRows(g.summaryRow(r.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	g.addProducts(m, r.Products, false)
	return generate(m)
}

// MonthlyReport genera el PDF del reporte mensual, incluida la tabla por día.
func (g *MarotoReportGenerator) MonthlyReport(r *dto.MonthlyReportDTO) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte mensual nil")
	}
	if r.Month < 1 || r.Month > 12 {
		return nil, fmt.Errorf("pdf: mes inválido %d", r.Month)
	}
	title := "REPORTE MENSUAL"
	period := fmt.Sprintf("%s de %d", monthNames[r.Month-1], r.Year)

	m := maroto.New(g.config(title))
	g.addHeader(m, title, period)
	m.AddRows(g.summaryRow(r.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	g.addProducts(m, r.Products, true)

	if len(r.Days) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(sectionTitleRow("ACTIVIDAD POR DÍA"))
		m.AddRows(daysHeaderRow())
		for _, d := range r.Days {
			m.AddRows(g.dayRow(d))
		}
	}
	return generate(m)
}

func (g *MarotoReportGenerator) config(title string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// addHeader: título (izq) y período + fecha de emisión (der).
func (g *MarotoReportGenerator) addHeader(m core.Maroto, title, period string) {
	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(g.author, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Control de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
}

// summaryRow: totales del período en cuatro columnas.
func (g *MarotoReportGenerator) summaryRow(s dto.ReportSummaryDTO) core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Align: align.Center, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: c, Align: align.Center, Top: 6,
			}),
		)
	}
	return row.New(14).Add(
		cell("VENTAS", g.money(s.TotalSales), colorPrimary),
		cell("COMPRAS", g.money(s.TotalPurchases), colorPrimary),
		cell("GANANCIA", g.money(s.TotalProfit), profitColor(s.TotalProfit)),
		cell("PRODUCTOS CON ACTIVIDAD", g.printer.Sprintf("%d", s.ProductsWithActivity), colorPrimary),
	)
}

func (g *MarotoReportGenerator) addProducts(m core.Maroto, items []dto.ProductActivityDTO, monthly bool) {
	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos en el período.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
		return
	}
	m.AddRows(productsHeaderRow(monthly))
	for _, p := range items {
		m.AddRows(g.productRow(p, monthly))
	}
}

// productsHeaderRow: cabecera de la tabla de productos con fondo azul.
func productsHeaderRow(monthly bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{
		h("Producto", 3, align.Left),
		h("Vend.", 1, align.Center),
		h("Ventas", 2, align.Right),
		h("Comp.", 1, align.Center),
		h("Compras", 2, align.Right),
		h("Stock", 1, align.Center),
		h("Ganancia", 2, align.Right),
	}
	if monthly {
		// días con venta/compra reemplazan la columna de stock
		cols[5] = h("Días V/C", 1, align.Center)
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoReportGenerator) productRow(p dto.ProductActivityDTO, monthly bool) core.Row {
	small := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	fifth := g.printer.Sprintf("%d", p.CurrentStock)
	if monthly {
		fifth = fmt.Sprintf("%d/%d", p.DaysWithSales, p.DaysWithPurchases)
	}
	return row.New(7).Add(
		small(p.ProductName, 3, align.Left),
		small(g.printer.Sprintf("%d", p.UnitsSold), 1, align.Center),
		small(g.money(p.SalesTotal), 2, align.Right),
		small(g.printer.Sprintf("%d", p.UnitsBought), 1, align.Center),
		small(g.money(p.PurchasesTotal), 2, align.Right),
		small(fifth, 1, align.Center),
		col.New(2).Add(text.New(g.money(p.Profit), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: profitColor(p.Profit),
		})),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}),
	))
}

func daysHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Productos", 2, align.Center),
		h("Ventas", 2, align.Right),
		h("Compras", 2, align.Right),
		h("Ganancia", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoReportGenerator) dayRow(d dto.DayActivityDTO) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		cell(d.Date.Format("02/01/2006"), 3, align.Left),
		cell(g.printer.Sprintf("%d", d.DistinctProducts), 2, align.Center),
		cell(g.money(d.Sales), 2, align.Right),
		cell(g.money(d.Purchases), 2, align.Right),
		col.New(3).Add(text.New(g.money(d.Profit), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: profitColor(d.Profit),
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores de miles en español. Ej: 1234.5 → "$1.234,50"
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + g.money(d.Neg())
	}
	return "$" + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func profitColor(d decimal.Decimal) *props.Color {
	if d.IsNegative() {
		return colorLoss
	}
	return colorPrimary
}
