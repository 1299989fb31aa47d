package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductActivityDTO actividad de un producto en un período (día o mes).
type ProductActivityDTO struct {
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	UnitsSold         int64           `json:"units_sold"`
	SalesTotal        decimal.Decimal `json:"sales_total"`
	UnitsBought       int64           `json:"units_bought"`
	PurchasesTotal    decimal.Decimal `json:"purchases_total"`
	CurrentStock      int64           `json:"current_stock"`
	Profit            decimal.Decimal `json:"profit"`                        // ventas - compras
	DaysWithSales     int             `json:"days_with_sales,omitempty"`     // solo mensual
	DaysWithPurchases int             `json:"days_with_purchases,omitempty"` // solo mensual
}

// ReportSummaryDTO totales del período.
type ReportSummaryDTO struct {
	TotalSales           decimal.Decimal `json:"total_sales"`
	TotalPurchases       decimal.Decimal `json:"total_purchases"`
	TotalProfit          decimal.Decimal `json:"total_profit"`
	ProductsWithActivity int             `json:"products_with_activity"`
}

// DailyReportDTO reporte de un día.
type DailyReportDTO struct {
	Date     time.Time            `json:"date"`
	Products []ProductActivityDTO `json:"products"`
	Summary  ReportSummaryDTO     `json:"summary"`
}

// DayActivityDTO actividad agregada de un día dentro del reporte mensual.
type DayActivityDTO struct {
	Date             time.Time       `json:"date"`
	DistinctProducts int             `json:"distinct_products"`
	Sales            decimal.Decimal `json:"sales"`
	Purchases        decimal.Decimal `json:"purchases"`
	Profit           decimal.Decimal `json:"profit"`
}

// MonthlyReportDTO reporte de un mes.
type MonthlyReportDTO struct {
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Products []ProductActivityDTO `json:"products"`
	Summary  ReportSummaryDTO     `json:"summary"`
	Days     []DayActivityDTO     `json:"days"`
}

// ProductHistoryEntryDTO una línea del historial de un producto.
type ProductHistoryEntryDTO struct {
	MovementID  int64           `json:"movement_id"`
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockBefore int64           `json:"stock_before"`
	StockAfter  int64           `json:"stock_after"`
}
