package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja solo vía movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	movRepo repository.MovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.MovementRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo}
}

// Create crea un nuevo producto. Stock inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	product := &entity.Product{
		Name:      name,
		Thumbnail: strings.TrimSpace(in.Thumbnail),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre y miniatura. El producto centinela no se puede modificar.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if entity.IsExternalExpense(id) {
		return nil, fmt.Errorf("%w: el producto %q es del sistema", domain.ErrForbidden, entity.ExternalExpenseProductName)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		if !strings.EqualFold(name, product.Name) {
			if err := uc.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		product.Name = name
	}
	if in.Thumbnail != nil {
		product.Thumbnail = strings.TrimSpace(*in.Thumbnail)
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos activos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete desactiva un producto (borrado lógico). Las líneas históricas siguen apuntando a él.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if entity.IsExternalExpense(id) {
		return fmt.Errorf("%w: el producto %q es del sistema", domain.ErrForbidden, entity.ExternalExpenseProductName)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil || !product.Active {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return uc.repo.Deactivate(ctx, id)
}

// QuickSummary productos activos, stock total y movimientos registrados hoy (hora local).
func (uc *ProductUseCase) QuickSummary(ctx context.Context, now time.Time) (*dto.QuickSummaryResponse, error) {
	count, stock, err := uc.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := uc.movRepo.CountSince(ctx, startOfDay.UTC())
	if err != nil {
		return nil, err
	}
	return &dto.QuickSummaryResponse{
		TotalProducts:  count,
		TotalStock:     stock,
		MovementsToday: today,
	}, nil
}

func (uc *ProductUseCase) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := uc.repo.GetActiveByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un producto llamado %q", domain.ErrDuplicate, name)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Thumbnail: p.Thumbnail,
		Stock:     p.Stock,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}
