package entity

import "time"

// Producto reservado "External Expense": representa gastos que no son inventario físico.
// Su stock está fijo en 1 y el libro de movimientos nunca lo lee ni lo escribe.
const (
	ExternalExpenseProductID   int64 = 1
	ExternalExpenseProductName       = "External Expense"
	ExternalExpenseStock       int64 = 1
)

// Product representa un producto del catálogo. Stock solo cambia vía movimientos.
// Active=false es un borrado lógico: el producto sale del catálogo pero sus líneas históricas siguen siendo válidas.
type Product struct {
	ID        int64
	Name      string
	Thumbnail string
	Stock     int64
	Active    bool
	CreatedAt time.Time
}

// IsExternalExpense indica si el producto es el centinela de gastos externos.
func (p *Product) IsExternalExpense() bool {
	return p != nil && p.ID == ExternalExpenseProductID
}

// IsExternalExpense indica si productID corresponde al centinela.
func IsExternalExpense(productID int64) bool {
	return productID == ExternalExpenseProductID
}
