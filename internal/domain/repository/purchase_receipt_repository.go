package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PurchaseReceiptRepository define el puerto de persistencia para recepciones.
type PurchaseReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.PurchaseReceipt) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseReceipt, error)
	Update(ctx context.Context, receipt *entity.PurchaseReceipt) error
	ListByOrder(ctx context.Context, tenantID, orderID string) ([]*entity.PurchaseReceipt, error)
	// List página de recepciones filtrada por orden y estado (vacío = todas), más recientes primero.
	List(ctx context.Context, tenantID, orderID string, status entity.ReceiptStatus, limit, offset int) ([]*entity.PurchaseReceipt, int, error)
}
