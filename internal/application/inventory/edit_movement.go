package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/ledger"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LineEdit nuevos valores para una línea dentro de una edición por lote.
type LineEdit struct {
	LineID    int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// EditMovementLine cambia cantidad y precio de una línea, ajusta el stock del producto
// por la diferencia y recalcula el total del movimiento. StockBefore/StockAfter no se tocan.
func (uc *LedgerUseCase) EditMovementLine(ctx context.Context, lineID, quantity int64, unitPrice decimal.Decimal) error {
	if err := ledger.ValidateLine(quantity, unitPrice); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		line, err := movRepo.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: línea %d", domain.ErrNotFound, lineID)
		}
		mov, err := movRepo.GetByID(ctx, line.MovementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, line.MovementID)
		}
		if err := applyLineEdit(ctx, movRepo, productRepo, mov, line, quantity, unitPrice); err != nil {
			return err
		}
		return recomputeTotal(ctx, movRepo, mov.ID)
	})
}

// EditMovementLines aplica varias ediciones sobre el mismo movimiento en una sola transacción.
// Si una línea no pertenece al movimiento, no se aplica ninguna.
func (uc *LedgerUseCase) EditMovementLines(ctx context.Context, movementID int64, edits []LineEdit) error {
	if len(edits) == 0 {
		return fmt.Errorf("%w: no hay líneas para editar", domain.ErrInvalidInput)
	}
	for _, e := range edits {
		if err := ledger.ValidateLine(e.Quantity, e.UnitPrice); err != nil {
			return fmt.Errorf("línea %d: %w", e.LineID, err)
		}
	}
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
		for _, e := range edits {
			line, err := movRepo.GetLine(ctx, e.LineID)
			if err != nil {
				return err
			}
			if line == nil || line.MovementID != movementID {
				return fmt.Errorf("%w: línea %d en movimiento %d", domain.ErrNotFound, e.LineID, movementID)
			}
			if err := applyLineEdit(ctx, movRepo, productRepo, mov, line, e.Quantity, e.UnitPrice); err != nil {
				return err
			}
		}
		return recomputeTotal(ctx, movRepo, movementID)
	})
}

// EditMovementLinesFromRequest adapta el request HTTP del lote.
func (uc *LedgerUseCase) EditMovementLinesFromRequest(ctx context.Context, movementID int64, in dto.EditLinesRequest) error {
	edits := make([]LineEdit, 0, len(in.Lines))
	for _, l := range in.Lines {
		edits = append(edits, LineEdit{LineID: l.LineID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return uc.EditMovementLines(ctx, movementID, edits)
}

func applyLineEdit(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	mov *entity.Movement,
	line *entity.MovementLine,
	quantity int64,
	unitPrice decimal.Decimal,
) error {
	adjustment := ledger.EditAdjustment(mov.Kind, line.ProductID, line.Quantity, quantity)
	if adjustment != 0 {
		product, err := productRepo.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: id %d", domain.ErrUnknownProduct, line.ProductID)
		}
		newStock, err := ledger.ApplyAdjustment(product.ID, product.Stock, adjustment)
		if err != nil {
			return err
		}
		if err := productRepo.SetStock(ctx, product.ID, newStock); err != nil {
			return err
		}
	}
	return movRepo.UpdateLine(ctx, line.ID, quantity, unitPrice)
}

func recomputeTotal(ctx context.Context, movRepo repository.MovementRepository, movementID int64) error {
	lines, err := movRepo.ListLines(ctx, movementID)
	if err != nil {
		return err
	}
	return movRepo.UpdateTotal(ctx, movementID, ledger.MovementTotal(lines))
}
