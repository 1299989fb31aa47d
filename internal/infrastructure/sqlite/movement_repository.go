package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/ledger"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const lineSelect = `l.id, l.movement_id, l.product_id, p.name AS product_name, l.quantity,
	l.unit_price, l.subtotal, l.stock_before, l.stock_after`

// MovementRepo cabeceras y líneas sobre SQLite.
type MovementRepo struct {
	db *gorm.DB
}

// NewMovementRepository construye el repositorio. Acepta la conexión o una tx de gorm.
func NewMovementRepository(db *gorm.DB) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create inserta la cabecera.
func (r *MovementRepo) Create(ctx context.Context, mov *entity.Movement) error {
	m := movementModel{
		Kind:        string(mov.Kind),
		Description: mov.Description,
		LineCount:   mov.LineCount,
		TotalAmount: mov.TotalAmount,
		CreatedBy:   mov.CreatedBy,
		CreatedAt:   mov.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("insert movement", err)
	}
	mov.ID = m.ID
	return nil
}

// CreateLine inserta una línea. El subtotal se guarda ya calculado (cantidad * precio).
func (r *MovementRepo) CreateLine(ctx context.Context, l *entity.MovementLine) error {
	m := movementLineModel{
		MovementID:  l.MovementID,
		ProductID:   l.ProductID,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Subtotal:    ledger.LineTotal(l.Quantity, l.UnitPrice),
		StockBefore: l.StockBefore,
		StockAfter:  l.StockAfter,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isForeignKeyErr(err) {
			return fmt.Errorf("%w: id %d", domain.ErrUnknownProduct, l.ProductID)
		}
		return wrapErr("insert movement line", err)
	}
	l.ID = m.ID
	l.Subtotal = m.Subtotal
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	var m movementModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get movement", err)
	}
	return m.toEntity(), nil
}

func (r *MovementRepo) lines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("movement_lines AS l").
		Select(lineSelect).
		Joins("JOIN products p ON p.id = l.product_id")
}

// GetLine (nil, nil) si no existe.
func (r *MovementRepo) GetLine(ctx context.Context, lineID int64) (*entity.MovementLine, error) {
	var rows []lineRow
	if err := r.lines(ctx).Where("l.id = ?", lineID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, wrapErr("get movement line", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

// ListLines líneas del movimiento por ID ascendente.
func (r *MovementRepo) ListLines(ctx context.Context, movementID int64) ([]*entity.MovementLine, error) {
	return r.ListLinesByMovementIDs(ctx, []int64{movementID})
}

// ListLinesByMovementIDs líneas de varios movimientos por ID ascendente.
func (r *MovementRepo) ListLinesByMovementIDs(ctx context.Context, movementIDs []int64) ([]*entity.MovementLine, error) {
	if len(movementIDs) == 0 {
		return nil, nil
	}
	var rows []lineRow
	if err := r.lines(ctx).Where("l.movement_id IN ?", movementIDs).Order("l.id ASC").Scan(&rows).Error; err != nil {
		return nil, wrapErr("list movement lines", err)
	}
	out := make([]*entity.MovementLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// UpdateLine cantidad, precio y subtotal; las fotos de stock no cambian.
func (r *MovementRepo) UpdateLine(ctx context.Context, lineID, quantity int64, unitPrice decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&movementLineModel{}).Where("id = ?", lineID).Updates(map[string]any{
		"quantity":   quantity,
		"unit_price": unitPrice,
		"subtotal":   ledger.LineTotal(quantity, unitPrice),
	})
	if res.Error != nil {
		return wrapErr("update movement line", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: línea %d", domain.ErrNotFound, lineID)
	}
	return nil
}

// UpdateTotal reescribe el total de la cabecera.
func (r *MovementRepo) UpdateTotal(ctx context.Context, movementID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&movementModel{}).Where("id = ?", movementID).Update("total_amount", total)
	if res.Error != nil {
		return wrapErr("update movement total", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, movementID)
	}
	return nil
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE (foreign_keys=on).
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&movementModel{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr("delete movement", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, id)
	}
	return nil
}

// List cabeceras filtradas, más recientes primero. To es exclusivo.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	q := r.db.WithContext(ctx).Model(&movementModel{})
	if f.Kind != nil {
		q = q.Where("kind = ?", string(*f.Kind))
	}
	if f.ProductID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM movement_lines l WHERE l.movement_id = movements.id AND l.product_id = ?)", *f.ProductID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	var models []movementModel
	if err := q.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, wrapErr("list movements", err)
	}
	out := make([]*entity.Movement, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// CountSince movimientos con created_at >= from.
func (r *MovementRepo) CountSince(ctx context.Context, from time.Time) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&movementModel{}).Where("created_at >= ?", from.UTC()).Count(&n).Error; err != nil {
		return 0, wrapErr("count movements", err)
	}
	return int(n), nil
}
