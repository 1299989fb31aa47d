package sqlite

import (
	"context"
	"time"

	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"gorm.io/gorm"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

const reportSelect = `m.id AS movement_id, m.kind, m.description, m.created_at,
	l.product_id, p.name AS product_name, p.stock AS product_stock,
	l.quantity, l.unit_price, l.subtotal, l.stock_before, l.stock_after`

// ReportRepo lecturas planas para reportes.
type ReportRepo struct {
	db *gorm.DB
}

// NewReportRepository construye el repositorio de solo lectura.
func NewReportRepository(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("movement_lines AS l").
		Select(reportSelect).
		Joins("JOIN movements m ON m.id = l.movement_id").
		Joins("JOIN products p ON p.id = l.product_id")
}

// ListLinesBetween líneas con created_at en [from, to), en orden cronológico.
func (r *ReportRepo) ListLinesBetween(ctx context.Context, from, to time.Time) ([]entity.ReportLine, error) {
	var rows []reportRow
	err := r.base(ctx).
		Where("m.created_at >= ? AND m.created_at < ?", from.UTC(), to.UTC()).
		Order("m.created_at ASC, l.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("report lines", err)
	}
	return toReportLines(rows), nil
}

// ListProductHistory líneas de un producto, más recientes primero.
func (r *ReportRepo) ListProductHistory(ctx context.Context, productID int64, from, to *time.Time) ([]entity.ReportLine, error) {
	q := r.base(ctx).Where("l.product_id = ?", productID)
	if from != nil {
		q = q.Where("m.created_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("m.created_at < ?", to.UTC())
	}
	var rows []reportRow
	if err := q.Order("m.created_at DESC, l.id DESC").Scan(&rows).Error; err != nil {
		return nil, wrapErr("product history", err)
	}
	return toReportLines(rows), nil
}

func toReportLines(rows []reportRow) []entity.ReportLine {
	out := make([]entity.ReportLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out
}
