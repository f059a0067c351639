package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNoteStatus estado de la nota de crédito.
type CreditNoteStatus string

// Estados de la nota de crédito.
const (
	CreditNotePendiente CreditNoteStatus = "PENDIENTE"
	CreditNoteAplicada  CreditNoteStatus = "APLICADA"
	CreditNoteCancelada CreditNoteStatus = "CANCELADA"
)

// CreditNote devolución sobre una venta completada (NC-00001). Se aplica al crearse.
type CreditNote struct {
	ID          string
	TenantID    string
	Code        string
	SaleID      string
	Reason      string
	UserID      string
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Status      CreditNoteStatus
	RefundedAt  *time.Time
	Lines       []CreditNoteLine
	CreatedAt   time.Time
}

// CreditNoteLine cantidad devuelta de un detalle de la venta original.
type CreditNoteLine struct {
	ID           string
	CreditNoteID string
	SaleLineID   string
	ProductID    string
	Quantity     int
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
}
