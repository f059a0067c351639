package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest detalle de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CashSessionID string            `json:"cash_session_id"`
	CustomerID    string            `json:"customer_id"`
	WarehouseID   string            `json:"warehouse_id" validate:"required"`
	Notes         string            `json:"notes"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PaymentRequest pago individual.
type PaymentRequest struct {
	PaymentMethodID string          `json:"payment_method_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference"`
}

// ConfirmPaymentRequest body para POST /api/sales/:id/confirm-payment.
type ConfirmPaymentRequest struct {
	Payments       []PaymentRequest `json:"payments" validate:"dive"`
	AmountReceived decimal.Decimal  `json:"amount_received"`
}

// SaleLineResponse detalle de venta.
type SaleLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID              string          `json:"id"`
	PaymentMethodID string          `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference,omitempty"`
	Order           int             `json:"order"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	CashSessionID  string             `json:"cash_session_id,omitempty"`
	CustomerID     string             `json:"customer_id,omitempty"`
	WarehouseID    string             `json:"warehouse_id"`
	UserID         string             `json:"user_id"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Tax            decimal.Decimal    `json:"tax"`
	Total          decimal.Decimal    `json:"total"`
	AmountReceived decimal.Decimal    `json:"amount_received"`
	Change         decimal.Decimal    `json:"change"`
	Status         string             `json:"status"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	Lines          []SaleLineResponse `json:"lines"`
	Payments       []PaymentResponse  `json:"payments" validate:"dive"`
	CreatedAt      time.Time          `json:"created_at"`
}

// OpenCashSessionRequest body para POST /api/cash-sessions.
type OpenCashSessionRequest struct {
	RegisterID    string          `json:"register_id" validate:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes"`
}

// CloseCashSessionRequest body para POST /api/cash-sessions/:id/close.
type CloseCashSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	Notes         string          `json:"notes"`
}

// CashMovementRequest body para POST /api/cash-sessions/:id/movements.
type CashMovementRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=INGRESO EGRESO"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason" validate:"required,max=200"`
	Description string          `json:"description"`
}

// CashMovementResponse ingreso o egreso registrado.
type CashMovementResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Description string          `json:"description,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CashSessionResponse salida de una sesión de caja. Expected = apertura + ventas + ingresos - egresos.
type CashSessionResponse struct {
	ID            string                 `json:"id"`
	RegisterID    string                 `json:"register_id"`
	UserID        string                 `json:"user_id"`
	OpeningAmount decimal.Decimal        `json:"opening_amount"`
	TotalSales    decimal.Decimal        `json:"total_sales"`
	TotalIncome   decimal.Decimal        `json:"total_income"`
	TotalExpense  decimal.Decimal        `json:"total_expense"`
	Expected      decimal.Decimal        `json:"expected_amount"`
	ClosingAmount *decimal.Decimal       `json:"closing_amount,omitempty"`
	Difference    *decimal.Decimal       `json:"difference,omitempty"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	Movements     []CashMovementResponse `json:"movements"`
	OpenedAt      time.Time              `json:"opened_at"`
	ClosedAt      *time.Time             `json:"closed_at,omitempty"`
}

// CashSessionListResponse lista paginada de sesiones.
type CashSessionListResponse struct {
	Items []CashSessionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// SaleListQuery filtros de GET /api/sales. From en formato 2006-01-02.
type SaleListQuery struct {
	Status     string
	CustomerID string
	From       string
}

// SaleListResponse lista paginada de ventas (cabeceras).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
