package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/domain"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"gorm.io/gorm"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción de gorm.
// fn solo debe usar los repos recibidos: la única conexión queda tomada por la tx.
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	var fnErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewMovementRepository(tx), NewProductRepository(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("%w: transaction: %w", domain.ErrStorage, err)
	}
	return err
}
