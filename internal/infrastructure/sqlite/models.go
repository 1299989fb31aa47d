package sqlite

import (
	"time"

	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Los importes se guardan como TEXT y se leen con decimal.Decimal (Scanner/Valuer) para no perder precisión.

type productModel struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	Thumbnail string
	Stock     int64
	Active    bool
	CreatedAt time.Time
}

func (productModel) TableName() string { return "products" }

func (m productModel) toEntity() *entity.Product {
	return &entity.Product{
		ID:        m.ID,
		Name:      m.Name,
		Thumbnail: m.Thumbnail,
		Stock:     m.Stock,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

type movementModel struct {
	ID          int64 `gorm:"primaryKey"`
	Kind        string
	Description string
	LineCount   int
	TotalAmount decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}

func (movementModel) TableName() string { return "movements" }

func (m movementModel) toEntity() *entity.Movement {
	return &entity.Movement{
		ID:          m.ID,
		Kind:        entity.MovementKind(m.Kind),
		Description: m.Description,
		LineCount:   m.LineCount,
		TotalAmount: m.TotalAmount,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

type movementLineModel struct {
	ID          int64 `gorm:"primaryKey"`
	MovementID  int64
	ProductID   int64
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	StockBefore int64
	StockAfter  int64
}

func (movementLineModel) TableName() string { return "movement_lines" }

// lineRow línea con el nombre del producto (JOIN).
type lineRow struct {
	ID          int64
	MovementID  int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	StockBefore int64
	StockAfter  int64
}

func (r lineRow) toEntity() *entity.MovementLine {
	return &entity.MovementLine{
		ID:          r.ID,
		MovementID:  r.MovementID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Subtotal:    r.Subtotal,
		StockBefore: r.StockBefore,
		StockAfter:  r.StockAfter,
	}
}

type reportRow struct {
	MovementID   int64
	Kind         string
	Description  string
	CreatedAt    time.Time
	ProductID    int64
	ProductName  string
	ProductStock int64
	Quantity     int64
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	StockBefore  int64
	StockAfter   int64
}

func (r reportRow) toEntity() entity.ReportLine {
	return entity.ReportLine{
		MovementID:   r.MovementID,
		Kind:         entity.MovementKind(r.Kind),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductStock: r.ProductStock,
		Quantity:     r.Quantity,
		UnitPrice:    r.UnitPrice,
		Subtotal:     r.Subtotal,
		StockBefore:  r.StockBefore,
		StockAfter:   r.StockAfter,
	}
}
