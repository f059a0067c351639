package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrMissingStockRecord = errors.New("no existe registro de stock para el producto en el almacén")
	ErrOverReceipt        = errors.New("la cantidad recibida excede lo pendiente de la orden")
	ErrExcessReturn       = errors.New("la cantidad a devolver supera la cantidad vendida")
	ErrMismatchedParent   = errors.New("el detalle no pertenece al documento indicado")
	ErrConcurrentUpdate   = errors.New("el stock fue modificado por otra operación")
)

// StockError detalla una salida rechazada por falta de stock.
// errors.Is(err, ErrInsufficientStock) es verdadero para cualquier *StockError.
type StockError struct {
	ProductID   string
	ProductName string
	WarehouseID string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = "ID " + e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d, Requerido: %d", name, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }
