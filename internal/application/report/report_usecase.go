package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportUseCase reportes diarios, mensuales e historial por producto.
// La agregación se hace aquí sobre las líneas planas del repositorio, igual para ambos motores.
type ReportUseCase struct {
	repo        repository.ReportRepository
	productRepo repository.ProductRepository
	movements   MovementLister
	csv         CSVWriter
	pdf         PDFGenerator
	loc         *time.Location
}

// NewReportUseCase construye el caso de uso. loc define qué es "un día" (nil = time.Local).
func NewReportUseCase(
	repo repository.ReportRepository,
	productRepo repository.ProductRepository,
	movements MovementLister,
	csv CSVWriter,
	pdf PDFGenerator,
	loc *time.Location,
) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{
		repo:        repo,
		productRepo: productRepo,
		movements:   movements,
		csv:         csv,
		pdf:         pdf,
		loc:         loc,
	}
}

// Daily reporte de actividad por producto del día que contiene date.
func (uc *ReportUseCase) Daily(ctx context.Context, date time.Time) (*dto.DailyReportDTO, error) {
	d := date.In(uc.loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, uc.loc)
	to := from.AddDate(0, 0, 1)

	lines, err := uc.repo.ListLinesBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	products, summary := uc.aggregate(lines)
	return &dto.DailyReportDTO{Date: from, Products: products, Summary: summary}, nil
}

// Monthly reporte del mes con días de actividad por producto y detalle por día.
func (uc *ReportUseCase) Monthly(ctx context.Context, year, month int) (*dto.MonthlyReportDTO, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: mes %d/%d", domain.ErrInvalidInput, month, year)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	to := from.AddDate(0, 1, 0)

	lines, err := uc.repo.ListLinesBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	products, summary := uc.aggregate(lines)

	salesDays := map[int64]map[string]bool{}
	purchaseDays := map[int64]map[string]bool{}
	days := map[string]*dayAcc{}
	for _, l := range lines {
		local := l.CreatedAt.In(uc.loc)
		key := local.Format("2006-01-02")
		acc, ok := days[key]
		if !ok {
			acc = &dayAcc{
				date:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.loc),
				products: map[int64]bool{},
			}
			days[key] = acc
		}
		acc.products[l.ProductID] = true

		switch l.Kind {
		case entity.MovementKindExit:
			acc.sales = acc.sales.Add(l.Subtotal)
			markDay(salesDays, l.ProductID, key)
		case entity.MovementKindEntry:
			acc.purchases = acc.purchases.Add(l.Subtotal)
			markDay(purchaseDays, l.ProductID, key)
		}
	}
	for i := range products {
		products[i].DaysWithSales = len(salesDays[products[i].ProductID])
		products[i].DaysWithPurchases = len(purchaseDays[products[i].ProductID])
	}

	dayList := make([]dto.DayActivityDTO, 0, len(days))
	for _, acc := range days {
		dayList = append(dayList, dto.DayActivityDTO{
			Date:             acc.date,
			DistinctProducts: len(acc.products),
			Sales:            acc.sales,
			Purchases:        acc.purchases,
			Profit:           acc.sales.Sub(acc.purchases),
		})
	}
	sort.Slice(dayList, func(i, j int) bool { return dayList[i].Date.After(dayList[j].Date) })

	return &dto.MonthlyReportDTO{
		Year:     year,
		Month:    month,
		Products: products,
		Summary:  summary,
		Days:     dayList,
	}, nil
}

// ProductHistory líneas de un producto con sus fotos de stock, más recientes primero.
func (uc *ReportUseCase) ProductHistory(ctx context.Context, productID int64, from, to *time.Time) ([]dto.ProductHistoryEntryDTO, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
	}
	lines, err := uc.repo.ListProductHistory(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductHistoryEntryDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.ProductHistoryEntryDTO{
			MovementID:  l.MovementID,
			Date:        l.CreatedAt,
			Kind:        string(l.Kind),
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			StockBefore: l.StockBefore,
			StockAfter:  l.StockAfter,
		})
	}
	return out, nil
}

// ExportDailyCSV escribe el reporte diario en CSV.
func (uc *ReportUseCase) ExportDailyCSV(ctx context.Context, date time.Time, w io.Writer) error {
	r, err := uc.Daily(ctx, date)
	if err != nil {
		return err
	}
	return uc.csv.DailyReport(w, r)
}

// ExportMonthlyCSV escribe el reporte mensual en CSV.
func (uc *ReportUseCase) ExportMonthlyCSV(ctx context.Context, year, month int, w io.Writer) error {
	r, err := uc.Monthly(ctx, year, month)
	if err != nil {
		return err
	}
	return uc.csv.MonthlyReport(w, r)
}

// ExportMovementsCSV escribe el listado filtrado de movimientos en CSV.
func (uc *ReportUseCase) ExportMovementsCSV(ctx context.Context, filter entity.MovementFilter, w io.Writer) error {
	items, err := uc.movements.ListMovements(ctx, filter)
	if err != nil {
		return err
	}
	return uc.csv.Movements(w, items)
}

// ExportDailyPDF genera el PDF del reporte diario.
func (uc *ReportUseCase) ExportDailyPDF(ctx context.Context, date time.Time) ([]byte, error) {
	r, err := uc.Daily(ctx, date)
	if err != nil {
		return nil, err
	}
	return uc.pdf.DailyReport(r)
}

// ExportMonthlyPDF genera el PDF del reporte mensual.
func (uc *ReportUseCase) ExportMonthlyPDF(ctx context.Context, year, month int) ([]byte, error) {
	r, err := uc.Monthly(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return uc.pdf.MonthlyReport(r)
}

type dayAcc struct {
	date      time.Time
	products  map[int64]bool
	sales     decimal.Decimal
	purchases decimal.Decimal
}

func markDay(m map[int64]map[string]bool, productID int64, day string) {
	if m[productID] == nil {
		m[productID] = map[string]bool{}
	}
	m[productID][day] = true
}

// aggregate suma por producto: salidas = ventas, entradas = compras. Ordena por ventas desc.
func (uc *ReportUseCase) aggregate(lines []entity.ReportLine) ([]dto.ProductActivityDTO, dto.ReportSummaryDTO) {
	byProduct := map[int64]*dto.ProductActivityDTO{}
	order := []int64{}
	summary := dto.ReportSummaryDTO{
		TotalSales:     decimal.Zero,
		TotalPurchases: decimal.Zero,
		TotalProfit:    decimal.Zero,
	}

	for _, l := range lines {
		p, ok := byProduct[l.ProductID]
		if !ok {
			p = &dto.ProductActivityDTO{
				ProductID:      l.ProductID,
				ProductName:    l.ProductName,
				SalesTotal:     decimal.Zero,
				PurchasesTotal: decimal.Zero,
				CurrentStock:   l.ProductStock,
			}
			byProduct[l.ProductID] = p
			order = append(order, l.ProductID)
		}
		switch l.Kind {
		case entity.MovementKindExit:
			p.UnitsSold += l.Quantity
			p.SalesTotal = p.SalesTotal.Add(l.Subtotal)
			summary.TotalSales = summary.TotalSales.Add(l.Subtotal)
		case entity.MovementKindEntry:
			p.UnitsBought += l.Quantity
			p.PurchasesTotal = p.PurchasesTotal.Add(l.Subtotal)
			summary.TotalPurchases = summary.TotalPurchases.Add(l.Subtotal)
		}
	}

	out := make([]dto.ProductActivityDTO, 0, len(order))
	for _, id := range order {
		p := byProduct[id]
		p.Profit = p.SalesTotal.Sub(p.PurchasesTotal)
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].SalesTotal.Cmp(out[j].SalesTotal); c != 0 {
			return c > 0
		}
		return out[i].ProductName < out[j].ProductName
	})

	summary.TotalProfit = summary.TotalSales.Sub(summary.TotalPurchases)
	summary.ProductsWithActivity = len(out)
	return out, summary
}
