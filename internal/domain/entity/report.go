package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportLine fila plana (línea + cabecera + producto) usada por los reportes.
type ReportLine struct {
	MovementID   int64
	Kind         MovementKind
	Description  string
	CreatedAt    time.Time
	ProductID    int64
	ProductName  string
	ProductStock int64
	Quantity     int64
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	StockBefore  int64
	StockAfter   int64
}
