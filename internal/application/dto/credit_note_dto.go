package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNoteItemRequest cantidad a devolver de un detalle de la venta.
type CreditNoteItemRequest struct {
	SaleLineID string `json:"sale_line_id" validate:"required"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity" validate:"min=1"`
}

// CreateCreditNoteRequest body para POST /api/credit-notes.
type CreateCreditNoteRequest struct {
	SaleID string                  `json:"sale_id" validate:"required"`
	Reason string                  `json:"reason"`
	Items  []CreditNoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreditNoteLineResponse detalle devuelto.
type CreditNoteLineResponse struct {
	ID         string          `json:"id"`
	SaleLineID string          `json:"sale_line_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// CreditNoteResponse salida de una nota de crédito.
type CreditNoteResponse struct {
	ID         string                   `json:"id"`
	Code       string                   `json:"code"`
	SaleID     string                   `json:"sale_id"`
	Reason     string                   `json:"reason,omitempty"`
	UserID     string                   `json:"user_id"`
	Subtotal   decimal.Decimal          `json:"subtotal"`
	Tax        decimal.Decimal          `json:"tax"`
	Total      decimal.Decimal          `json:"total"`
	Status     string                   `json:"status"`
	RefundedAt *time.Time               `json:"refunded_at,omitempty"`
	Lines      []CreditNoteLineResponse `json:"lines"`
	CreatedAt  time.Time                `json:"created_at"`
}

// CreditNoteListResponse notas de una venta.
type CreditNoteListResponse struct {
	Items []CreditNoteResponse `json:"items"`
}
