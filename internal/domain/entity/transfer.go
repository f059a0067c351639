package entity

import "time"

// TransferStatus estado de una transferencia entre almacenes.
type TransferStatus string

// Estados de la transferencia.
const (
	TransferPendiente TransferStatus = "PENDIENTE"
	TransferAprobada  TransferStatus = "APROBADA"
	TransferCancelada TransferStatus = "CANCELADA"
)

// Transfer traslado de mercadería entre dos almacenes distintos (TRF-00001).
type Transfer struct {
	ID                     string
	TenantID               string
	Code                   string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Reason                 string
	Notes                  string
	RequestedByID          string
	ApprovedByID           string
	ApprovedAt             *time.Time
	Status                 TransferStatus
	Lines                  []TransferLine
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TransferLine producto y cantidad a trasladar.
type TransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   int
}
