package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para notas de crédito.
type CreditNoteRepository interface {
	Create(ctx context.Context, note *entity.CreditNote) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.CreditNote, error)
	ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.CreditNote, error)
	// ReturnedQuantity suma lo devuelto por notas APLICADA sobre un detalle de venta.
	ReturnedQuantity(ctx context.Context, tenantID, saleLineID string) (int, error)
}
