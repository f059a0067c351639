package entity

import "time"

// StockBalance es el saldo materializado de un producto en un almacén (por tenant).
// Solo inventory.ApplyMovement lo modifica; Quantity debe ser
// siempre igual al StockAfter del último movimiento para la misma clave.
type StockBalance struct {
	TenantID    string
	ProductID   string
	WarehouseID string
	Quantity    int
	MinQuantity int   // punto de reorden; 0 = sin alerta
	Version     int64 // contador optimista; 0 = fila aún no persistida
	UpdatedAt   time.Time
}

// StockKey identifica un saldo.
type StockKey struct {
	TenantID    string
	ProductID   string
	WarehouseID string
}

// Key devuelve la clave del saldo.
func (b *StockBalance) Key() StockKey {
	return StockKey{TenantID: b.TenantID, ProductID: b.ProductID, WarehouseID: b.WarehouseID}
}

// IsLow indica si el saldo está en o bajo su mínimo configurado.
func (b *StockBalance) IsLow() bool {
	return b.MinQuantity > 0 && b.Quantity <= b.MinQuantity
}
