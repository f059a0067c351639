package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del kardex (solo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProduct devuelve la página más reciente primero y el total de filas.
	ListByProduct(ctx context.Context, tenantID, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, int, error)
	// Latest último movimiento de la clave; nil, nil si no hay.
	Latest(ctx context.Context, key entity.StockKey) (*entity.InventoryMovement, error)
}
