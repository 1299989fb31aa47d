package repository

import (
	"context"

	"github.com/jhoicas/kontrol/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (directorio de productos).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila cuando el motor lo soporta.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	GetActiveByName(ctx context.Context, name string) (*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetStock(ctx context.Context, id, stock int64) error
	Deactivate(ctx context.Context, id int64) error
	// Totals devuelve la cantidad de productos activos y la suma de su stock (sin el centinela).
	Totals(ctx context.Context) (count int, stock int64, err error)
}
