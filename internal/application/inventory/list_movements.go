package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
)

// ListMovements lista cabeceras filtradas (más recientes primero) con los nombres y cantidades de sus productos.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]dto.MovementSummaryResponse, error) {
	if filter.Kind != nil && !filter.Kind.Valid() {
		return nil, domain.ErrInvalidMovementKind
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}

	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementSummaryResponse, 0, len(movements))
	if len(movements) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
	}
	lines, err := uc.movRepo.ListLinesByMovementIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byMovement := make(map[int64][]*entity.MovementLine, len(movements))
	for _, l := range lines {
		byMovement[l.MovementID] = append(byMovement[l.MovementID], l)
	}

	for _, m := range movements {
		item := dto.MovementSummaryResponse{
			ID:           m.ID,
			Kind:         string(m.Kind),
			Description:  m.Description,
			LineCount:    m.LineCount,
			TotalAmount:  m.TotalAmount,
			CreatedBy:    m.CreatedBy,
			CreatedAt:    m.CreatedAt,
			ProductNames: []string{},
			Quantities:   []int64{},
		}
		for _, l := range byMovement[m.ID] {
			item.ProductNames = append(item.ProductNames, l.ProductName)
			item.Quantities = append(item.Quantities, l.Quantity)
			item.TotalQuantity += l.Quantity
		}
		out = append(out, item)
	}
	return out, nil
}

// GetMovementLines devuelve las líneas de un movimiento ordenadas por nombre de producto.
func (uc *LedgerUseCase) GetMovementLines(ctx context.Context, movementID int64) ([]dto.MovementLineResponse, error) {
	mov, err := uc.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, movementID)
	}
	lines, err := uc.movRepo.ListLines(ctx, movementID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := strings.ToLower(lines[i].ProductName), strings.ToLower(lines[j].ProductName)
		if a != b {
			return a < b
		}
		return lines[i].ID < lines[j].ID
	})

	out := make([]dto.MovementLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toMovementLineResponse(l))
	}
	return out, nil
}
