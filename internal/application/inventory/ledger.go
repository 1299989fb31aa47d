package inventory

import (
	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
)

// LedgerUseCase es el libro unificado de movimientos: único componente que modifica el stock de los productos.
// Cada operación de escritura corre completa dentro de una transacción del TxRunner.
type LedgerUseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso. movRepo y productRepo se usan solo para lecturas fuera de transacción.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		productRepo: productRepo,
	}
}

func toMovementLineResponse(l *entity.MovementLine) dto.MovementLineResponse {
	return dto.MovementLineResponse{
		ID:          l.ID,
		MovementID:  l.MovementID,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Subtotal:    l.Subtotal,
		StockBefore: l.StockBefore,
		StockAfter:  l.StockAfter,
	}
}
