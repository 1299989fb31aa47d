package dto

import "time"

// CreateProductRequest entrada para crear un producto. El stock inicia en 0.
type CreateProductRequest struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock, que se maneja vía movimientos).
type UpdateProductRequest struct {
	Name      *string `json:"name"`
	Thumbnail *string `json:"thumbnail"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Stock     int64     `json:"stock"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductListResponse lista de productos activos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// QuickSummaryResponse resumen rápido para el menú principal.
type QuickSummaryResponse struct {
	TotalProducts  int   `json:"total_products"`
	TotalStock     int64 `json:"total_stock"`
	MovementsToday int   `json:"movements_today"`
}
