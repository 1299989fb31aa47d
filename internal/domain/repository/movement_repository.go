package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementRepository define el puerto de persistencia para cabeceras y líneas de movimientos.
// Las operaciones de escritura se usan dentro de un TxRunner; GetByID/GetLine devuelven (nil, nil) si no existen.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	CreateLine(ctx context.Context, line *entity.MovementLine) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	GetLine(ctx context.Context, lineID int64) (*entity.MovementLine, error)
	// ListLines devuelve las líneas de un movimiento ordenadas por ID.
	ListLines(ctx context.Context, movementID int64) ([]*entity.MovementLine, error)
	ListLinesByMovementIDs(ctx context.Context, movementIDs []int64) ([]*entity.MovementLine, error)
	UpdateLine(ctx context.Context, lineID, quantity int64, unitPrice decimal.Decimal) error
	UpdateTotal(ctx context.Context, movementID int64, total decimal.Decimal) error
	// Delete elimina la cabecera; las líneas caen en cascada.
	Delete(ctx context.Context, id int64) error
	// List devuelve cabeceras filtradas, más recientes primero.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	CountSince(ctx context.Context, from time.Time) (int, error)
}
