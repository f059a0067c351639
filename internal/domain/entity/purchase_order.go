package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

// Estados de la orden de compra.
const (
	PurchaseOrderPendiente   PurchaseOrderStatus = "PENDIENTE"
	PurchaseOrderEnviada     PurchaseOrderStatus = "ENVIADA"
	PurchaseOrderConfirmada  PurchaseOrderStatus = "CONFIRMADA"
	PurchaseOrderEnRecepcion PurchaseOrderStatus = "EN_RECEPCION"
	PurchaseOrderParcial     PurchaseOrderStatus = "PARCIAL"
	PurchaseOrderCompletada  PurchaseOrderStatus = "COMPLETADA"
	PurchaseOrderCancelada   PurchaseOrderStatus = "CANCELADA"
)

// PurchaseOrder orden de compra a proveedor (OC-00001).
type PurchaseOrder struct {
	ID                     string
	TenantID               string
	Code                   string
	SupplierID             string
	DestinationWarehouseID string
	UserID                 string
	ExpectedDate           *time.Time
	PaymentTerms           string
	Notes                  string
	Subtotal               decimal.Decimal
	Discount               decimal.Decimal
	Tax                    decimal.Decimal
	Total                  decimal.Decimal
	Status                 PurchaseOrderStatus
	Lines                  []PurchaseOrderLine
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PurchaseOrderLine detalle ordenado; QuantityReceived solo crece (salvo al anular una recepción pendiente).
type PurchaseOrderLine struct {
	ID               string
	OrderID          string
	ProductID        string
	QuantityOrdered  int
	QuantityReceived int
	UnitPrice        decimal.Decimal
	Discount         decimal.Decimal
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
	Notes            string
}

// Remaining cantidad pendiente de recibir.
func (l PurchaseOrderLine) Remaining() int {
	if r := l.QuantityOrdered - l.QuantityReceived; r > 0 {
		return r
	}
	return 0
}

// Line busca un detalle por ID.
func (o *PurchaseOrder) Line(id string) (*PurchaseOrderLine, bool) {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i], true
		}
	}
	return nil, false
}
