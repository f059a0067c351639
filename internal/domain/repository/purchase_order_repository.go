package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra y sus detalles.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	// GetByID carga cabecera y detalles; nil, nil si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	// ReplaceLines borra y recrea los detalles de la orden.
	ReplaceLines(ctx context.Context, order *entity.PurchaseOrder) error
	UpdateLine(ctx context.Context, line *entity.PurchaseOrderLine) error
	// GetLineByID busca un detalle en cualquier orden del tenant.
	GetLineByID(ctx context.Context, tenantID, lineID string) (*entity.PurchaseOrderLine, error)
	List(ctx context.Context, tenantID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, int, error)
}
