package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("fallo de almacenamiento")
)

// Errores específicos del libro de movimientos. Envuelven a los genéricos para que
// errors.Is(err, ErrInvalidInput) siga funcionando en la capa HTTP.
var (
	ErrUnknownProduct      = fmt.Errorf("%w: producto desconocido", ErrNotFound)
	ErrEmptyMovement       = fmt.Errorf("%w: el movimiento no tiene productos", ErrInvalidInput)
	ErrInvalidMovementKind = fmt.Errorf("%w: tipo de movimiento no válido", ErrInvalidInput)
	ErrInvalidQuantity     = fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidInput)
	ErrInvalidPrice        = fmt.Errorf("%w: el precio unitario no puede ser negativo", ErrInvalidInput)
)
