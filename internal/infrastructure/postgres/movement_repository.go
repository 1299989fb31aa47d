package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"m.id", "m.kind", "m.description", "m.line_count", "m.total_amount", "m.created_by", "m.created_at",
}

var lineColumns = []string{
	"l.id", "l.movement_id", "l.product_id", "p.name AS product_name", "l.quantity",
	"l.unit_price", "l.subtotal", "l.stock_before", "l.stock_after",
}

// MovementRepo cabeceras y líneas de movimientos sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta la cabecera y completa su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movements (kind, description, line_count, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		string(m.Kind), m.Description, m.LineCount, m.TotalAmount, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

// CreateLine inserta una línea. El subtotal lo calcula la columna generada y se devuelve.
func (r *MovementRepo) CreateLine(ctx context.Context, l *entity.MovementLine) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movement_lines (movement_id, product_id, quantity, unit_price, stock_before, stock_after)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, subtotal`,
		l.MovementID, l.ProductID, l.Quantity, l.UnitPrice, l.StockBefore, l.StockAfter,
	).Scan(&l.ID, &l.Subtotal)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %d", domain.ErrUnknownProduct, l.ProductID)
		}
		return wrapErr("insert movement line", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	query, args, err := psql.Select(movementColumns...).From("movements m").Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, wrapErr("build get movement", err)
	}
	var m entity.Movement
	if err := pgxscan.Get(ctx, r.q, &m, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get movement", err)
	}
	return &m, nil
}

func (r *MovementRepo) selectLines() squirrel.SelectBuilder {
	return psql.Select(lineColumns...).
		From("movement_lines l").
		Join("products p ON p.id = l.product_id")
}

// GetLine (nil, nil) si no existe. Bloquea la fila de la línea dentro de una tx.
func (r *MovementRepo) GetLine(ctx context.Context, lineID int64) (*entity.MovementLine, error) {
	query, args, err := r.selectLines().Where(squirrel.Eq{"l.id": lineID}).Suffix("FOR UPDATE OF l").ToSql()
	if err != nil {
		return nil, wrapErr("build get line", err)
	}
	var l entity.MovementLine
	if err := pgxscan.Get(ctx, r.q, &l, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get movement line", err)
	}
	return &l, nil
}

// ListLines líneas de un movimiento por ID ascendente.
func (r *MovementRepo) ListLines(ctx context.Context, movementID int64) ([]*entity.MovementLine, error) {
	return r.ListLinesByMovementIDs(ctx, []int64{movementID})
}

// ListLinesByMovementIDs líneas de varios movimientos por ID ascendente.
func (r *MovementRepo) ListLinesByMovementIDs(ctx context.Context, movementIDs []int64) ([]*entity.MovementLine, error) {
	if len(movementIDs) == 0 {
		return nil, nil
	}
	query, args, err := r.selectLines().Where(squirrel.Eq{"l.movement_id": movementIDs}).OrderBy("l.id ASC").ToSql()
	if err != nil {
		return nil, wrapErr("build list lines", err)
	}
	var lines []*entity.MovementLine
	if err := pgxscan.Select(ctx, r.q, &lines, query, args...); err != nil {
		return nil, wrapErr("list movement lines", err)
	}
	return lines, nil
}

// UpdateLine cambia cantidad y precio; las fotos de stock quedan como estaban.
func (r *MovementRepo) UpdateLine(ctx context.Context, lineID, quantity int64, unitPrice decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE movement_lines SET quantity = $1, unit_price = $2 WHERE id = $3`,
		quantity, unitPrice, lineID,
	)
	if err != nil {
		return wrapErr("update movement line", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %d", domain.ErrNotFound, lineID)
	}
	return nil
}

// UpdateTotal reescribe el total de la cabecera.
func (r *MovementRepo) UpdateTotal(ctx context.Context, movementID int64, total decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE movements SET total_amount = $1 WHERE id = $2`, total, movementID)
	if err != nil {
		return wrapErr("update movement total", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, movementID)
	}
	return nil
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete movement", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, id)
	}
	return nil
}

// List cabeceras filtradas, más recientes primero. To es exclusivo.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	b := psql.Select(movementColumns...).From("movements m")
	if f.Kind != nil {
		b = b.Where(squirrel.Eq{"m.kind": string(*f.Kind)})
	}
	if f.ProductID != nil {
		b = b.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM movement_lines l WHERE l.movement_id = m.id AND l.product_id = ?)", *f.ProductID))
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"m.created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.Lt{"m.created_at": *f.To})
	}
	query, args, err := b.OrderBy("m.created_at DESC", "m.id DESC").ToSql()
	if err != nil {
		return nil, wrapErr("build list movements", err)
	}
	var list []*entity.Movement
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, wrapErr("list movements", err)
	}
	return list, nil
}

// CountSince movimientos con created_at >= from.
func (r *MovementRepo) CountSince(ctx context.Context, from time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE created_at >= $1`, from).Scan(&n); err != nil {
		return 0, wrapErr("count movements", err)
	}
	return n, nil
}
