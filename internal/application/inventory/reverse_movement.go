package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
)

// ReverseMovement anula un movimiento: devuelve cada producto al stock que tenía antes (StockBefore)
// y elimina la cabecera con sus líneas. Las líneas se recorren de la más nueva a la más antigua,
// así un producto repetido termina en la foto de su primera línea.
func (uc *LedgerUseCase) ReverseMovement(ctx context.Context, movementID int64) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, err := movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, movementID)
		}

		lines, err := movRepo.ListLines(ctx, movementID)
		if err != nil {
			return err
		}
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			if entity.IsExternalExpense(line.ProductID) {
				continue
			}
			if err := productRepo.SetStock(ctx, line.ProductID, line.StockBefore); err != nil {
				return err
			}
		}
		return movRepo.Delete(ctx, movementID)
	})
}
