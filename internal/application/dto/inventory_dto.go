package dto

import "time"

// StockResponse saldo de un producto en un almacén.
type StockResponse struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	Quantity      int       `json:"quantity"`
	MinQuantity   int       `json:"min_quantity"`
	Low           bool      `json:"low"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockListResponse lista de saldos.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	WarehouseID       string    `json:"warehouse_id"`
	Kind              string    `json:"kind"`
	Quantity          int       `json:"quantity"`
	StockBefore       int       `json:"stock_before"`
	StockAfter        int       `json:"stock_after"`
	DocumentReference string    `json:"document_reference"`
	ReasonID          string    `json:"reason_id,omitempty"`
	UserID            string    `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// KardexResponse página del kardex, más reciente primero.
type KardexResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=AJUSTE_INGRESO AJUSTE_EGRESO"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	Reference   string `json:"reference"`
	ReasonID    string `json:"reason_id"`
}

// SetMinQuantityRequest body para PUT /api/inventory/min-stock.
type SetMinQuantityRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	MinQuantity int    `json:"min_quantity" validate:"min=0"`
}
