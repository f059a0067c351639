package entity

import "time"

// ReceiptStatus estado de una recepción de compra.
type ReceiptStatus string

// Estados de la recepción.
const (
	ReceiptPendiente  ReceiptStatus = "PENDIENTE"
	ReceiptConfirmada ReceiptStatus = "CONFIRMADA"
	ReceiptCancelada  ReceiptStatus = "CANCELADA"
)

// PurchaseReceipt entrega física registrada contra una orden de compra (REC-00001).
type PurchaseReceipt struct {
	ID              string
	TenantID        string
	Code            string
	OrderID         string
	WarehouseID     string
	ReceivedByID    string
	GuideNumber     string
	Notes           string
	IsFullReception bool
	Status          ReceiptStatus
	Lines           []ReceiptLine
	ReceivedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReceiptLine cantidades recibidas/aceptadas/rechazadas de un detalle de la orden.
type ReceiptLine struct {
	ID                string
	ReceiptID         string
	OrderLineID       string
	ProductID         string
	QuantityReceived  int
	QuantityAccepted  int
	QuantityRejected  int
	RejectionReason   string
}
