package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo catálogo en memoria (solo lectura).
type ProductRepo struct{ a *access }

// GetByID producto del tenant o nil.
func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.do(func(st *state) error {
		if p, ok := st.products[id]; ok && p.TenantID == tenantID {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

// WarehouseRepo almacenes en memoria (solo lectura).
type WarehouseRepo struct{ a *access }

// GetByID almacén del tenant o nil.
func (r *WarehouseRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.do(func(st *state) error {
		if w, ok := st.warehouses[id]; ok && w.TenantID == tenantID {
			c := *w
			out = &c
		}
		return nil
	})
	return out, err
}
