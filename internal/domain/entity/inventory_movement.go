package entity

import "time"

// MovementKind tipo de movimiento de kardex.
type MovementKind string

// Tipos de movimiento de inventario.
const (
	MovementEntrada       MovementKind = "ENTRADA"
	MovementSalida        MovementKind = "SALIDA"
	MovementAjusteIngreso MovementKind = "AJUSTE_INGRESO"
	MovementAjusteEgreso  MovementKind = "AJUSTE_EGRESO"
)

// IsOutbound indica si el movimiento descuenta stock.
func (k MovementKind) IsOutbound() bool {
	return k == MovementSalida || k == MovementAjusteEgreso
}

// Valid indica si el tipo es uno de los conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntrada, MovementSalida, MovementAjusteIngreso, MovementAjusteEgreso:
		return true
	}
	return false
}

// InventoryMovement es una fila inmutable del kardex.
type InventoryMovement struct {
	ID                string
	TenantID          string
	ProductID         string
	WarehouseID       string
	Kind              MovementKind
	Quantity          int // siempre > 0; el signo lo da Kind
	StockBefore       int
	StockAfter        int
	DocumentReference string // código del documento origen (OC, REC, VEN, TRF, NC)
	ReasonID          string
	UserID            string
	CreatedAt         time.Time
}
