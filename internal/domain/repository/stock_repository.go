package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar saldos por tenant+producto+almacén.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve nil, nil si el saldo no existe.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error)
	// Save inserta (Version 0) o actualiza con control optimista sobre Version.
	// Devuelve domain.ErrConcurrentUpdate si otra transacción ganó; en éxito incrementa Version.
	Save(ctx context.Context, balance *entity.StockBalance) error
	// List filtra por producto y/o almacén (vacío = todos).
	List(ctx context.Context, tenantID, productID, warehouseID string) ([]*entity.StockBalance, error)
	// ListLow saldos con MinQuantity > 0 y Quantity <= MinQuantity.
	ListLow(ctx context.Context, tenantID string) ([]*entity.StockBalance, error)
}
