package sqlite

import (
	"errors"
	"fmt"

	"github.com/jhoicas/kontrol/internal/domain"
	"gorm.io/gorm"
)

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isForeignKeyErr(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
