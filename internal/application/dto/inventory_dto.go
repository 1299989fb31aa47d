package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	Kind        string                `json:"kind"` // entry | exit
	Description string                `json:"description"`
	Lines       []RegisterLineRequest `json:"lines"`
}

// RegisterLineRequest una línea del movimiento a registrar.
type RegisterLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// EditLineRequest body para PATCH /api/movement-lines/:id y elemento del lote de PUT /api/movements/:id/lines.
type EditLineRequest struct {
	LineID    int64           `json:"line_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// EditLinesRequest body para PUT /api/movements/:id/lines.
type EditLinesRequest struct {
	Lines []EditLineRequest `json:"lines"`
}

// MovementSummaryResponse movimiento con nombres y cantidades de sus productos (para listados).
type MovementSummaryResponse struct {
	ID            int64           `json:"id"`
	Kind          string          `json:"kind"`
	Description   string          `json:"description"`
	LineCount     int             `json:"line_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	ProductNames  []string        `json:"product_names"`
	Quantities    []int64         `json:"quantities"`
	TotalQuantity int64           `json:"total_quantity"`
}

// MovementListResponse listado materializado de movimientos.
type MovementListResponse struct {
	Items []MovementSummaryResponse `json:"items"`
	Total int                       `json:"total"`
}

// MovementLineResponse línea de un movimiento.
type MovementLineResponse struct {
	ID          int64           `json:"id"`
	MovementID  int64           `json:"movement_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockBefore int64           `json:"stock_before"`
	StockAfter  int64           `json:"stock_after"`
}
