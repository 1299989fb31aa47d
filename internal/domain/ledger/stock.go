// Package ledger contiene la aritmética de stock del libro de movimientos (servicio de dominio puro).
package ledger

import (
	"fmt"
	"math"

	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockAfter calcula el stock resultante de aplicar una línea.
// Centinela: siempre 1. Entrada: before + qty. Salida: before - qty, sin bajar de cero.
func StockAfter(kind entity.MovementKind, productID, before, quantity int64) (int64, error) {
	if entity.IsExternalExpense(productID) {
		return entity.ExternalExpenseStock, nil
	}
	switch kind {
	case entity.MovementKindEntry:
		if quantity > math.MaxInt64-before {
			return 0, fmt.Errorf("%w: producto %d, stock actual %d, entrada %d excede el máximo",
				domain.ErrInvalidQuantity, productID, before, quantity)
		}
		return before + quantity, nil
	case entity.MovementKindExit:
		after := before - quantity
		if after < 0 {
			return 0, fmt.Errorf("%w: producto %d, stock actual %d, solicitado %d",
				domain.ErrInsufficientStock, productID, before, quantity)
		}
		return after, nil
	}
	return 0, domain.ErrInvalidMovementKind
}

// EditAdjustment devuelve el ajuste de stock al cambiar la cantidad de una línea.
// Salida: -(new-old). Entrada: +(new-old). El centinela nunca se ajusta.
func EditAdjustment(kind entity.MovementKind, productID, oldQuantity, newQuantity int64) int64 {
	if entity.IsExternalExpense(productID) || oldQuantity == newQuantity {
		return 0
	}
	delta := newQuantity - oldQuantity
	if kind == entity.MovementKindExit {
		return -delta
	}
	return delta
}

// ApplyAdjustment suma el ajuste de una edición al stock actual.
// Resultado negativo: ErrInsufficientStock. Desbordamiento: ErrInvalidQuantity.
func ApplyAdjustment(productID, stock, adjustment int64) (int64, error) {
	if adjustment > 0 && stock > math.MaxInt64-adjustment {
		return 0, fmt.Errorf("%w: producto %d, stock actual %d, ajuste %d excede el máximo",
			domain.ErrInvalidQuantity, productID, stock, adjustment)
	}
	after := stock + adjustment
	if after < 0 {
		return 0, fmt.Errorf("%w: producto %d, stock actual %d, ajuste %d",
			domain.ErrInsufficientStock, productID, stock, adjustment)
	}
	return after, nil
}

// LineTotal = quantity * unitPrice.
func LineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// MovementTotal suma los subtotales de las líneas.
func MovementTotal(lines []*entity.MovementLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// PriceDecimals decimales que guarda cualquier motor para precios y totales.
const PriceDecimals = 2

// ValidateLine verifica cantidad > 0 y precio >= 0 con a lo sumo PriceDecimals decimales.
// "1.500" es válido; "0.005" no.
func ValidateLine(quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if !unitPrice.Equal(unitPrice.Round(PriceDecimals)) {
		return fmt.Errorf("%w: %s tiene más de %d decimales", domain.ErrInvalidPrice, unitPrice, PriceDecimals)
	}
	return nil
}
