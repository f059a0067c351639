package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para transferencias entre almacenes.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
}
