package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/application/report"
	"github.com/jhoicas/kontrol/internal/application/usecase"
	"github.com/jhoicas/kontrol/internal/infrastructure/backup"
	"github.com/jhoicas/kontrol/internal/infrastructure/export"
	"github.com/jhoicas/kontrol/internal/infrastructure/pdf"
	"github.com/jhoicas/kontrol/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/kontrol/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app *fiber.App
}

// newServer API completa sobre un archivo SQLite temporal, sin JWT.
func newServer(t *testing.T, withBackups bool) testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(context.Background(), filepath.Join(dir, "kontrol.db"), sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	g := db.Gorm()
	productRepo := sqlite.NewProductRepository(g)
	movRepo := sqlite.NewMovementRepository(g)
	ledger := inventory.NewLedgerUseCase(sqlite.NewTxRunner(g), movRepo, productRepo)
	reports := report.NewReportUseCase(sqlite.NewReportRepository(g), productRepo, ledger,
		export.NewCSVWriter(), pdf.NewMarotoReportGenerator("Test"), time.UTC)

	deps := apphttp.RouterDeps{
		Ledger:    ledger,
		ProductUC: usecase.NewProductUseCase(productRepo, movRepo),
		ReportUC:  reports,
		Location:  time.UTC,
		Ping:      db.Ping,
	}
	if withBackups {
		deps.Backups = backup.NewManager(db, backup.Config{Dir: filepath.Join(dir, "backups")}, zerolog.Nop())
	}
	app := apphttp.NewApp("kontrol-test", zerolog.Nop())
	apphttp.Router(app, deps)
	return testServer{app: app}
}

func (s testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s testServer) createProduct(t *testing.T, name string) int64 {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/products", dto.CreateProductRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp).ID
}

func (s testServer) register(t *testing.T, kind string, lines ...dto.RegisterLineRequest) *http.Response {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/movements", dto.RegisterMovementRequest{Kind: kind, Lines: lines})
}

func (s testServer) stock(t *testing.T, id int64) int64 {
	t.Helper()
	resp := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp).Stock
}

func line(productID, qty int64, price string) dto.RegisterLineRequest {
	return dto.RegisterLineRequest{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_RegistrarListarYRevertir(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Café")

	resp := s.register(t, "entry", line(p, 10, "2.50"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[dto.IDResponse](t, resp).ID
	assert.Equal(t, int64(10), s.stock(t, p))

	resp = s.do(t, http.MethodGet, "/api/movements?kind=entry", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MovementListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "sistema", list.Items[0].CreatedBy)
	assert.True(t, decimal.RequireFromString("25").Equal(list.Items[0].TotalAmount))
	assert.Equal(t, []string{"Café"}, list.Items[0].ProductNames)

	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/movements/%d/lines", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := decode[[]dto.MovementLineResponse](t, resp)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(0), lines[0].StockBefore)
	assert.Equal(t, int64(10), lines[0].StockAfter)

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/movements/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), s.stock(t, p))

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/movements/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovements_Errores(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Pan")

	tests := []struct {
		name   string
		kind   string
		lines  []dto.RegisterLineRequest
		status int
		code   string
	}{
		{"sin líneas", "entry", nil, http.StatusBadRequest, "EMPTY_MOVEMENT"},
		{"tipo inválido", "transfer", []dto.RegisterLineRequest{line(p, 1, "1")}, http.StatusBadRequest, "INVALID_KIND"},
		{"cantidad cero", "entry", []dto.RegisterLineRequest{line(p, 0, "1")}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"precio negativo", "entry", []dto.RegisterLineRequest{line(p, 1, "-1")}, http.StatusBadRequest, "INVALID_PRICE"},
		{"precio con tres decimales", "entry", []dto.RegisterLineRequest{line(p, 3, "0.005")}, http.StatusBadRequest, "INVALID_PRICE"},
		{"producto desconocido", "entry", []dto.RegisterLineRequest{line(999, 1, "1")}, http.StatusNotFound, "UNKNOWN_PRODUCT"},
		{"stock insuficiente", "exit", []dto.RegisterLineRequest{line(p, 1, "1")}, http.StatusConflict, "INSUFFICIENT_STOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.register(t, tt.kind, tt.lines...)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}

	resp := s.do(t, http.MethodPost, "/api/movements", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/movements?from=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/movements?from=2024-05-02&to=2024-05-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	resp = s.do(t, http.MethodGet, "/api/movements/abc/lines", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_EditarLineas(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Leche")
	resp := s.register(t, "entry", line(p, 10, "1"))
	id := decode[dto.IDResponse](t, resp).ID

	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/movements/%d/lines", id), nil)
	lineID := decode[[]dto.MovementLineResponse](t, resp)[0].ID

	resp = s.do(t, http.MethodPatch, fmt.Sprintf("/api/movement-lines/%d", lineID),
		dto.EditLineRequest{Quantity: 4, UnitPrice: decimal.RequireFromString("1.5")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(4), s.stock(t, p))

	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/movements/%d/lines", id), dto.EditLinesRequest{
		Lines: []dto.EditLineRequest{{LineID: lineID, Quantity: 7, UnitPrice: decimal.RequireFromString("1")}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(7), s.stock(t, p))

	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/movements/%d/lines", id), dto.EditLinesRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_ExportCSV(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Arroz")
	s.register(t, "entry", line(p, 3, "2"))

	resp := s.do(t, http.MethodGet, "/api/movements/export.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Arroz")
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	s := newServer(t, false)
	id := s.createProduct(t, "Queso")

	resp := s.do(t, http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "queso"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	name := "Queso fresco"
	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/products/%d", id), dto.UpdateProductRequest{Name: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, name, decode[dto.ProductResponse](t, resp).Name)

	resp = s.do(t, http.MethodDelete, "/api/products/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products", nil)
	list := decode[dto.ProductListResponse](t, resp)
	assert.Equal(t, 1, list.Total, "solo queda el centinela")

	resp = s.do(t, http.MethodGet, "/api/products/12345", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_Resumen(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Té")
	s.register(t, "entry", line(p, 5, "1"))

	resp := s.do(t, http.MethodGet, "/api/products/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.QuickSummaryResponse](t, resp)
	assert.Equal(t, 1, sum.TotalProducts)
	assert.Equal(t, int64(5), sum.TotalStock)
	assert.Equal(t, 1, sum.MovementsToday)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_DiarioEnTresFormatos(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Galletas")
	s.register(t, "entry", line(p, 10, "1"))
	s.register(t, "exit", line(p, 4, "3"))
	today := time.Now().UTC().Format("2006-01-02")

	resp := s.do(t, http.MethodGet, "/api/reports/daily?date="+today, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	daily := decode[dto.DailyReportDTO](t, resp)
	require.Len(t, daily.Products, 1)
	assert.Equal(t, int64(4), daily.Products[0].UnitsSold)
	assert.True(t, decimal.NewFromInt(2).Equal(daily.Summary.TotalProfit))

	resp = s.do(t, http.MethodGet, "/api/reports/daily?format=csv&date="+today, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv")

	resp = s.do(t, http.MethodGet, "/api/reports/daily?format=pdf&date="+today, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = s.do(t, http.MethodGet, "/api/reports/daily?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports_MensualEHistorial(t *testing.T) {
	s := newServer(t, false)
	p := s.createProduct(t, "Harina")
	s.register(t, "entry", line(p, 2, "1"))
	now := time.Now().UTC()

	resp := s.do(t, http.MethodGet, fmt.Sprintf("/api/reports/monthly?year=%d&month=%d", now.Year(), int(now.Month())), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	monthly := decode[dto.MonthlyReportDTO](t, resp)
	require.Len(t, monthly.Days, 1)

	resp = s.do(t, http.MethodGet, "/api/reports/monthly?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/reports/products/%d/history", p), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductHistoryEntryDTO](t, resp), 1)

	resp = s.do(t, http.MethodGet, "/api/reports/products/777/history", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Copias y salud
// ──────────────────────────────────────────────────────────────────────────────

func TestBackups_CrearListarRestaurar(t *testing.T) {
	s := newServer(t, true)
	p := s.createProduct(t, "Aceite")

	resp := s.do(t, http.MethodPost, "/api/backups", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	info := decode[dto.BackupInfoDTO](t, resp)

	s.register(t, "entry", line(p, 9, "1"))
	require.Equal(t, int64(9), s.stock(t, p))

	resp = s.do(t, http.MethodPost, "/api/backups/restore", dto.RestoreBackupRequest{File: info.File})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), s.stock(t, p))

	resp = s.do(t, http.MethodGet, "/api/backups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.BackupFileDTO](t, resp), 2, "la copia y el pre_restore")

	resp = s.do(t, http.MethodPost, "/api/backups/restore", dto.RestoreBackupRequest{File: "../kontrol.db"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackups_NoDisponibles(t *testing.T) {
	s := newServer(t, false)

	resp := s.do(t, http.MethodPost, "/api/backups", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/backups/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.BackupStatusDTO](t, resp).Enabled)
}

func TestHealth_YRequestID(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
