package report_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/application/report"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Dobles de prueba ─────────────────────────────────────────────────────────

type stubReportRepo struct {
	lines     []entity.ReportLine
	gotFrom   time.Time
	gotTo     time.Time
	historyOf int64
}

func (r *stubReportRepo) ListLinesBetween(_ context.Context, from, to time.Time) ([]entity.ReportLine, error) {
	r.gotFrom, r.gotTo = from, to
	var out []entity.ReportLine
	for _, l := range r.lines {
		if !l.CreatedAt.Before(from) && l.CreatedAt.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubReportRepo) ListProductHistory(_ context.Context, productID int64, _, _ *time.Time) ([]entity.ReportLine, error) {
	r.historyOf = productID
	var out []entity.ReportLine
	for i := len(r.lines) - 1; i >= 0; i-- {
		if r.lines[i].ProductID == productID {
			out = append(out, r.lines[i])
		}
	}
	return out, nil
}

type stubProductRepo struct {
	repository.ProductRepository
	products map[int64]*entity.Product
}

func (r *stubProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return r.products[id], nil
}

type stubLister struct{ items []dto.MovementSummaryResponse }

func (l *stubLister) ListMovements(context.Context, entity.MovementFilter) ([]dto.MovementSummaryResponse, error) {
	return l.items, nil
}

type recordingCSV struct {
	daily     *dto.DailyReportDTO
	monthly   *dto.MonthlyReportDTO
	movements []dto.MovementSummaryResponse
}

func (c *recordingCSV) DailyReport(w io.Writer, r *dto.DailyReportDTO) error {
	c.daily = r
	_, err := io.WriteString(w, "daily")
	return err
}

func (c *recordingCSV) MonthlyReport(w io.Writer, r *dto.MonthlyReportDTO) error {
	c.monthly = r
	_, err := io.WriteString(w, "monthly")
	return err
}

func (c *recordingCSV) Movements(w io.Writer, items []dto.MovementSummaryResponse) error {
	c.movements = items
	_, err := io.WriteString(w, "movements")
	return err
}

type stubPDF struct{}

func (stubPDF) DailyReport(*dto.DailyReportDTO) ([]byte, error)     { return []byte("%PDF-daily"), nil }
func (stubPDF) MonthlyReport(*dto.MonthlyReportDTO) ([]byte, error) { return []byte("%PDF-monthly"), nil }

func line(kind entity.MovementKind, productID int64, name string, qty, unit int64, at time.Time) entity.ReportLine {
	p := decimal.NewFromInt(unit)
	return entity.ReportLine{
		MovementID:   1,
		Kind:         kind,
		CreatedAt:    at,
		ProductID:    productID,
		ProductName:  name,
		ProductStock: 50,
		Quantity:     qty,
		UnitPrice:    p,
		Subtotal:     p.Mul(decimal.NewFromInt(qty)),
	}
}

func newUseCase(repo *stubReportRepo) (*report.ReportUseCase, *recordingCSV) {
	csv := &recordingCSV{}
	products := &stubProductRepo{products: map[int64]*entity.Product{2: {ID: 2, Name: "Café"}}}
	lister := &stubLister{items: []dto.MovementSummaryResponse{{ID: 9}}}
	return report.NewReportUseCase(repo, products, lister, csv, stubPDF{}, time.UTC), csv
}

// ── Daily ────────────────────────────────────────────────────────────────────

func TestDaily_AgregaPorProductoYOrdenaPorVentas(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{lines: []entity.ReportLine{
		line(entity.MovementKindExit, 2, "Café", 2, 10, day.Add(9*time.Hour)),
		line(entity.MovementKindExit, 3, "Té", 5, 10, day.Add(10*time.Hour)),
		line(entity.MovementKindEntry, 2, "Café", 10, 4, day.Add(11*time.Hour)),
		line(entity.MovementKindExit, 2, "Café", 1, 10, day.Add(-time.Hour)), // día anterior
	}}
	uc, _ := newUseCase(repo)

	r, err := uc.Daily(context.Background(), day.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, day, repo.gotFrom)
	assert.Equal(t, day.AddDate(0, 0, 1), repo.gotTo)
	require.Len(t, r.Products, 2)
	assert.Equal(t, "Té", r.Products[0].ProductName, "mayor venta primero")
	cafe := r.Products[1]
	assert.Equal(t, int64(2), cafe.UnitsSold)
	assert.Equal(t, int64(10), cafe.UnitsBought)
	assert.True(t, cafe.SalesTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, cafe.PurchasesTotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, cafe.Profit.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, int64(50), cafe.CurrentStock)

	assert.True(t, r.Summary.TotalSales.Equal(decimal.NewFromInt(70)))
	assert.True(t, r.Summary.TotalPurchases.Equal(decimal.NewFromInt(40)))
	assert.True(t, r.Summary.TotalProfit.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, r.Summary.ProductsWithActivity)
}

func TestDaily_SinActividad(t *testing.T) {
	uc, _ := newUseCase(&stubReportRepo{})
	r, err := uc.Daily(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, r.Products)
	assert.True(t, r.Summary.TotalProfit.IsZero())
}

// ── Monthly ──────────────────────────────────────────────────────────────────

func TestMonthly_DiasDeActividad(t *testing.T) {
	d1 := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{lines: []entity.ReportLine{
		line(entity.MovementKindExit, 2, "Café", 1, 10, d1),
		line(entity.MovementKindExit, 2, "Café", 1, 10, d1.Add(time.Hour)),
		line(entity.MovementKindExit, 2, "Café", 1, 10, d2),
		line(entity.MovementKindEntry, 3, "Té", 4, 2, d2),
		line(entity.MovementKindExit, 2, "Café", 1, 10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}}
	uc, _ := newUseCase(repo)

	r, err := uc.Monthly(context.Background(), 2024, 2)
	require.NoError(t, err)

	require.Len(t, r.Products, 2)
	assert.Equal(t, 2, r.Products[0].DaysWithSales)
	assert.Equal(t, 0, r.Products[0].DaysWithPurchases)
	assert.Equal(t, 1, r.Products[1].DaysWithPurchases)

	require.Len(t, r.Days, 2)
	assert.Equal(t, 20, r.Days[0].Date.Day(), "días más recientes primero")
	assert.Equal(t, 2, r.Days[0].DistinctProducts)
	assert.True(t, r.Days[0].Profit.Equal(decimal.NewFromInt(2)))
	assert.True(t, r.Days[1].Sales.Equal(decimal.NewFromInt(20)))
}

func TestMonthly_MesInvalido(t *testing.T) {
	uc, _ := newUseCase(&stubReportRepo{})
	_, err := uc.Monthly(context.Background(), 2024, 13)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── ProductHistory ───────────────────────────────────────────────────────────

func TestProductHistory(t *testing.T) {
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{lines: []entity.ReportLine{
		line(entity.MovementKindEntry, 2, "Café", 5, 1, at),
		line(entity.MovementKindExit, 2, "Café", 2, 3, at.Add(time.Hour)),
	}}
	uc, _ := newUseCase(repo)

	h, err := uc.ProductHistory(context.Background(), 2, nil, nil)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "exit", h[0].Kind)
	assert.Equal(t, int64(2), repo.historyOf)

	_, err = uc.ProductHistory(context.Background(), 99, nil, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)

	from, to := at, at.Add(-time.Hour)
	_, err = uc.ProductHistory(context.Background(), 2, &from, &to)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Exportaciones ────────────────────────────────────────────────────────────

func TestExports_DeleganEnEscritores(t *testing.T) {
	uc, csv := newUseCase(&stubReportRepo{})
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, uc.ExportDailyCSV(ctx, time.Now(), &buf))
	require.NotNil(t, csv.daily)
	require.NoError(t, uc.ExportMonthlyCSV(ctx, 2024, 1, &buf))
	require.NotNil(t, csv.monthly)
	require.NoError(t, uc.ExportMovementsCSV(ctx, entity.MovementFilter{}, &buf))
	assert.Len(t, csv.movements, 1)
	assert.Equal(t, "dailymonthlymovements", buf.String())

	pdf, err := uc.ExportDailyPDF(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-daily", string(pdf))
	pdf, err = uc.ExportMonthlyPDF(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-monthly", string(pdf))
}
