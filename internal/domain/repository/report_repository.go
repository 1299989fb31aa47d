package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kontrol/internal/domain/entity"
)

// ReportRepository lecturas planas para reportes. Los rangos son [from, to).
type ReportRepository interface {
	ListLinesBetween(ctx context.Context, from, to time.Time) ([]entity.ReportLine, error)
	ListProductHistory(ctx context.Context, productID int64, from, to *time.Time) ([]entity.ReportLine, error)
}
