package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest detalle de una orden de compra.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Notes     string          `json:"notes"`
}

// CreatePurchaseOrderRequest entrada para crear (o reemplazar) una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplier_id" validate:"required"`
	WarehouseID  string                     `json:"warehouse_id" validate:"required"`
	ExpectedDate *time.Time                 `json:"expected_date,omitempty"`
	PaymentTerms string                     `json:"payment_terms"`
	Notes        string                     `json:"notes"`
	Lines        []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest reemplaza cabecera y todos los detalles (solo PENDIENTE).
type UpdatePurchaseOrderRequest = CreatePurchaseOrderRequest

// ChangeStatusRequest body para PATCH /api/purchase-orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PurchaseOrderLineResponse detalle con cantidades recibidas.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Discount         decimal.Decimal `json:"discount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	Notes            string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	Code         string                      `json:"code"`
	SupplierID   string                      `json:"supplier_id"`
	WarehouseID  string                      `json:"warehouse_id"`
	UserID       string                      `json:"user_id"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	PaymentTerms string                      `json:"payment_terms,omitempty"`
	Notes        string                      `json:"notes,omitempty"`
	Subtotal     decimal.Decimal             `json:"subtotal"`
	Discount     decimal.Decimal             `json:"discount"`
	Tax          decimal.Decimal             `json:"tax"`
	Total        decimal.Decimal             `json:"total"`
	Status       string                      `json:"status"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceiptItemRequest cantidades recibidas de un detalle de la orden.
type ReceiptItemRequest struct {
	OrderLineID      string `json:"order_line_id" validate:"required"`
	QuantityReceived int    `json:"quantity_received" validate:"min=1"`
	QuantityAccepted int    `json:"quantity_accepted" validate:"min=0"`
	QuantityRejected int    `json:"quantity_rejected" validate:"min=0"`
	RejectionReason  string `json:"rejection_reason"`
}

// CreateReceiptRequest body para POST /api/purchase-receipts.
type CreateReceiptRequest struct {
	OrderID     string               `json:"order_id" validate:"required"`
	GuideNumber string               `json:"guide_number"`
	Notes       string               `json:"notes"`
	Items       []ReceiptItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiptLineResponse detalle de recepción.
type ReceiptLineResponse struct {
	ID               string `json:"id"`
	OrderLineID      string `json:"order_line_id"`
	ProductID        string `json:"product_id"`
	QuantityReceived int    `json:"quantity_received"`
	QuantityAccepted int    `json:"quantity_accepted"`
	QuantityRejected int    `json:"quantity_rejected"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
}

// ReceiptResponse salida de una recepción.
type ReceiptResponse struct {
	ID              string                `json:"id"`
	Code            string                `json:"code"`
	OrderID         string                `json:"order_id"`
	WarehouseID     string                `json:"warehouse_id"`
	ReceivedByID    string                `json:"received_by_id"`
	GuideNumber     string                `json:"guide_number,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	IsFullReception bool                  `json:"is_full_reception"`
	Status          string                `json:"status"`
	Lines           []ReceiptLineResponse `json:"lines"`
	ReceivedAt      time.Time             `json:"received_at"`
}

// ReceiptListResponse recepciones; Page solo en el listado paginado.
type ReceiptListResponse struct {
	Items []ReceiptResponse `json:"items"`
	Page  *PageResponse     `json:"page,omitempty"`
}
