package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{"id", "name", "thumbnail", "stock", "active", "created_at"}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y completa su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query, args, err := psql.Insert("products").
		Columns("name", "thumbnail", "stock", "active", "created_at").
		Values(product.Name, product.Thumbnail, product.Stock, product.Active, product.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return wrapErr("build insert product", err)
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&product.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return wrapErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate igual que GetByID pero con SELECT ... FOR UPDATE (solo tiene efecto dentro de una tx).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

// GetActiveByName busca un producto activo por nombre sin distinguir mayúsculas.
func (r *ProductRepo) GetActiveByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("lower(name) = ?", strings.ToLower(name))))
}

func (r *ProductRepo) getOne(ctx context.Context, b squirrel.SelectBuilder) (*entity.Product, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, wrapErr("build select product", err)
	}
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return &p, nil
}

// ListActive lista los productos activos ordenados por nombre.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	query, args, err := psql.Select(productColumns...).From("products").
		Where(squirrel.Eq{"active": true}).
		OrderBy("lower(name) ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr("build list products", err)
	}
	var list []*entity.Product
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, wrapErr("list products", err)
	}
	return list, nil
}

// Update actualiza nombre y miniatura. El stock no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query, args, err := psql.Update("products").
		Set("name", product.Name).
		Set("thumbnail", product.Thumbnail).
		Where(squirrel.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return wrapErr("build update product", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return wrapErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, product.ID)
	}
	return nil
}

// SetStock escribe el stock absoluto de un producto.
func (r *ProductRepo) SetStock(ctx context.Context, id, stock int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = $1 WHERE id = $2`, stock, id)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, id)
		}
		return wrapErr("set stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

// Deactivate borrado lógico.
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deactivate product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

// Totals cantidad de productos activos y stock total, sin contar el producto del sistema.
func (r *ProductRepo) Totals(ctx context.Context) (int, int64, error) {
	var count int
	var stock int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(stock), 0)::BIGINT FROM products WHERE active AND id <> $1`,
		entity.ExternalExpenseProductID,
	).Scan(&count, &stock)
	if err != nil {
		return 0, 0, wrapErr("product totals", err)
	}
	return count, stock, nil
}
