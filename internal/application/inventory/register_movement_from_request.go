package inventory

import (
	"context"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
// user es el operador autenticado (puede ser vacío).
func (uc *LedgerUseCase) RegisterMovementFromRequest(ctx context.Context, user string, in dto.RegisterMovementRequest) (int64, error) {
	input := MovementInput{
		Kind:        entity.MovementKind(in.Kind),
		Description: in.Description,
		CreatedBy:   user,
		Lines:       make([]LineInput, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return uc.RegisterMovement(ctx, input)
}
