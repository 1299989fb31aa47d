package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo lecturas planas (línea + cabecera + producto) para los reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de solo lectura.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func reportSelect() squirrel.SelectBuilder {
	return psql.Select(
		"m.id AS movement_id", "m.kind", "m.description", "m.created_at",
		"l.product_id", "p.name AS product_name", "p.stock AS product_stock",
		"l.quantity", "l.unit_price", "l.subtotal", "l.stock_before", "l.stock_after",
	).
		From("movement_lines l").
		Join("movements m ON m.id = l.movement_id").
		Join("products p ON p.id = l.product_id")
}

// ListLinesBetween líneas de movimientos con created_at en [from, to), en orden cronológico.
func (r *ReportRepo) ListLinesBetween(ctx context.Context, from, to time.Time) ([]entity.ReportLine, error) {
	query, args, err := reportSelect().
		Where(squirrel.GtOrEq{"m.created_at": from}).
		Where(squirrel.Lt{"m.created_at": to}).
		OrderBy("m.created_at ASC", "l.id ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr("build report lines", err)
	}
	var lines []entity.ReportLine
	if err := pgxscan.Select(ctx, r.q, &lines, query, args...); err != nil {
		return nil, wrapErr("report lines", err)
	}
	return lines, nil
}

// ListProductHistory líneas de un producto, más recientes primero. from/to opcionales.
func (r *ReportRepo) ListProductHistory(ctx context.Context, productID int64, from, to *time.Time) ([]entity.ReportLine, error) {
	b := reportSelect().Where(squirrel.Eq{"l.product_id": productID})
	if from != nil {
		b = b.Where(squirrel.GtOrEq{"m.created_at": *from})
	}
	if to != nil {
		b = b.Where(squirrel.Lt{"m.created_at": *to})
	}
	query, args, err := b.OrderBy("m.created_at DESC", "l.id DESC").ToSql()
	if err != nil {
		return nil, wrapErr("build product history", err)
	}
	var lines []entity.ReportLine
	if err := pgxscan.Select(ctx, r.q, &lines, query, args...); err != nil {
		return nil, wrapErr("product history", err)
	}
	return lines, nil
}
