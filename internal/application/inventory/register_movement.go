package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/ledger"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MovementInput entrada para registrar un movimiento.
// CreatedBy es el operador de la sesión; vacío = "sistema".
type MovementInput struct {
	Kind        entity.MovementKind
	Description string
	CreatedBy   string
	Lines       []LineInput
}

// LineInput una línea a registrar.
type LineInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// RegisterMovement valida la entrada, abre una transacción, toma la foto de stock de cada producto
// (bloqueando la fila), inserta cabecera y líneas y escribe el nuevo stock. Todo o nada.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, input MovementInput) (int64, error) {
	if !input.Kind.Valid() {
		return 0, domain.ErrInvalidMovementKind
	}
	if len(input.Lines) == 0 {
		return 0, domain.ErrEmptyMovement
	}
	for i, l := range input.Lines {
		if err := ledger.ValidateLine(l.Quantity, l.UnitPrice); err != nil {
			return 0, fmt.Errorf("línea %d: %w", i+1, err)
		}
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = entity.DefaultMovementDescription
	}
	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		createdBy = entity.DefaultMovementUser
	}

	var movementID int64
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		lines, err := resolveLines(ctx, productRepo, input.Kind, input.Lines)
		if err != nil {
			return err
		}

		mov := &entity.Movement{
			Kind:        input.Kind,
			Description: description,
			LineCount:   len(lines),
			TotalAmount: ledger.MovementTotal(lines),
			CreatedBy:   createdBy,
			CreatedAt:   time.Now().UTC(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		for _, line := range lines {
			line.MovementID = mov.ID
			if err := movRepo.CreateLine(ctx, line); err != nil {
				return err
			}
			if entity.IsExternalExpense(line.ProductID) {
				continue
			}
			if err := productRepo.SetStock(ctx, line.ProductID, line.StockAfter); err != nil {
				return err
			}
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return movementID, nil
}

// resolveLines calcula StockBefore/StockAfter de cada línea. Si un producto se repite,
// la segunda línea parte del StockAfter de la primera.
func resolveLines(
	ctx context.Context,
	productRepo repository.ProductRepository,
	kind entity.MovementKind,
	inputs []LineInput,
) ([]*entity.MovementLine, error) {
	running := make(map[int64]int64, len(inputs))
	lines := make([]*entity.MovementLine, 0, len(inputs))

	for _, in := range inputs {
		before, err := currentStock(ctx, productRepo, running, in.ProductID)
		if err != nil {
			return nil, err
		}
		after, err := ledger.StockAfter(kind, in.ProductID, before, in.Quantity)
		if err != nil {
			return nil, err
		}
		running[in.ProductID] = after

		lines = append(lines, &entity.MovementLine{
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    ledger.LineTotal(in.Quantity, in.UnitPrice),
			StockBefore: before,
			StockAfter:  after,
		})
	}
	return lines, nil
}

func currentStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	running map[int64]int64,
	productID int64,
) (int64, error) {
	if entity.IsExternalExpense(productID) {
		return entity.ExternalExpenseStock, nil
	}
	if stock, ok := running[productID]; ok {
		return stock, nil
	}
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil || !product.Active {
		return 0, fmt.Errorf("%w: id %d", domain.ErrUnknownProduct, productID)
	}
	return product.Stock, nil
}
