package dto

import "time"

// TransferItemRequest producto y cantidad a trasladar.
type TransferItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required"`
	Reason                 string                `json:"reason"`
	Notes                  string                `json:"notes"`
	Items                  []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransferLineResponse detalle de transferencia.
type TransferLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                     string                 `json:"id"`
	Code                   string                 `json:"code"`
	SourceWarehouseID      string                 `json:"source_warehouse_id"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id"`
	Reason                 string                 `json:"reason,omitempty"`
	Notes                  string                 `json:"notes,omitempty"`
	RequestedByID          string                 `json:"requested_by_id"`
	ApprovedByID           string                 `json:"approved_by_id,omitempty"`
	ApprovedAt             *time.Time             `json:"approved_at,omitempty"`
	Status                 string                 `json:"status"`
	Lines                  []TransferLineResponse `json:"lines"`
	CreatedAt              time.Time              `json:"created_at"`
}
