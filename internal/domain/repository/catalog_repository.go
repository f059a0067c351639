package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ProductRepository consulta de solo lectura del catálogo. nil, nil si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
}

// WarehouseRepository consulta de solo lectura de almacenes. nil, nil si no existe.
type WarehouseRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Warehouse, error)
}
