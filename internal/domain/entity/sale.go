package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta.
type SaleStatus string

// Estados de la venta. COMPLETADA y CANCELADA son terminales.
const (
	SalePendiente  SaleStatus = "PENDIENTE"
	SaleCompletada SaleStatus = "COMPLETADA"
	SaleCancelada  SaleStatus = "CANCELADA"
)

// Sale venta de punto de venta (VEN-00001).
type Sale struct {
	ID             string
	TenantID       string
	Code           string
	CashSessionID  string // vacío si la venta no pertenece a una sesión de caja
	CustomerID     string
	WarehouseID    string
	UserID         string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	AmountReceived decimal.Decimal
	Change         decimal.Decimal
	Status         SaleStatus
	PaidAt         *time.Time
	Notes          string
	Lines          []SaleLine
	Payments       []Payment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleLine detalle de venta.
type SaleLine struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Subtotal    decimal.Decimal
}

// Payment pago registrado al confirmar la venta; Order empieza en 1.
type Payment struct {
	ID              string
	SaleID          string
	PaymentMethodID string
	Amount          decimal.Decimal
	Reference       string
	Order           int
}

// Line busca un detalle por ID.
func (s *Sale) Line(id string) (*SaleLine, bool) {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return &s.Lines[i], true
		}
	}
	return nil, false
}
