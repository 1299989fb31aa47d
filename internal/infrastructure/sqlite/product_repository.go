package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"gorm.io/gorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo directorio de productos sobre SQLite. Acepta la conexión o una tx de gorm.
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepository construye el repositorio.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create inserta el producto y completa su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m := productModel{
		Name:      product.Name,
		Thumbnail: product.Thumbnail,
		Stock:     product.Stock,
		Active:    product.Active,
		CreatedAt: product.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return wrapErr("insert product", err)
	}
	product.ID = m.ID
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return m.toEntity(), nil
}

// GetForUpdate en SQLite la transacción ya tiene la base para sí (una sola conexión).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetActiveByName búsqueda sin distinguir mayúsculas entre los activos.
func (r *ProductRepo) GetActiveByName(ctx context.Context, name string) (*entity.Product, error) {
	var m productModel
	err := r.db.WithContext(ctx).
		Where("active = ? AND lower(name) = ?", true, strings.ToLower(name)).
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get product by name", err)
	}
	return m.toEntity(), nil
}

// ListActive activos ordenados por nombre.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("lower(name) ASC, id ASC").Find(&models).Error; err != nil {
		return nil, wrapErr("list products", err)
	}
	out := make([]*entity.Product, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Update nombre y miniatura.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"name": product.Name, "thumbnail": product.Thumbnail})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return wrapErr("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, product.ID)
	}
	return nil
}

// SetStock escribe el stock absoluto.
func (r *ProductRepo) SetStock(ctx context.Context, id, stock int64) error {
	if stock < 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, id)
	}
	res := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return wrapErr("set stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

// Deactivate borrado lógico.
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return wrapErr("deactivate product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

// Totals productos activos y stock total, sin el producto del sistema.
func (r *ProductRepo) Totals(ctx context.Context) (int, int64, error) {
	var row struct {
		Count int
		Stock int64
	}
	err := r.db.WithContext(ctx).Model(&productModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(stock), 0) AS stock").
		Where("active = ? AND id <> ?", true, entity.ExternalExpenseProductID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, wrapErr("product totals", err)
	}
	return row.Count, row.Stock, nil
}
