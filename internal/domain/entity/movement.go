package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del libro.
type MovementKind string

// Tipos de movimiento.
const (
	MovementKindEntry MovementKind = "entry" // entrada: suma stock
	MovementKindExit  MovementKind = "exit"  // salida: resta stock
)

// DefaultMovementDescription descripción usada cuando el llamador no envía una.
const DefaultMovementDescription = "Movimiento"

// DefaultMovementUser operador registrado cuando no hay sesión.
const DefaultMovementUser = "sistema"

// Valid indica si el tipo es entry o exit.
func (k MovementKind) Valid() bool {
	return k == MovementKindEntry || k == MovementKindExit
}

// Movement cabecera de un movimiento. LineCount y TotalAmount están desnormalizados para listados.
type Movement struct {
	ID          int64
	Kind        MovementKind
	Description string
	LineCount   int
	TotalAmount decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}

// MovementLine línea de un movimiento. StockBefore/StockAfter son fotos del stock del producto
// al momento de registrar la línea; se usan para revertir sin recalcular.
type MovementLine struct {
	ID          int64
	MovementID  int64
	ProductID   int64
	ProductName string // solo lectura (join con products)
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // derivado: Quantity * UnitPrice
	StockBefore int64
	StockAfter  int64
}

// ComputeSubtotal devuelve Quantity * UnitPrice.
func (l *MovementLine) ComputeSubtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// MovementFilter filtros opcionales para listar movimientos. To es exclusivo.
type MovementFilter struct {
	Kind      *MovementKind
	ProductID *int64
	From      *time.Time
	To        *time.Time
}
