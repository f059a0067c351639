package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.SequenceRepository          = (*SequenceRepo)(nil)
)

// StockRepo saldos en memoria.
type StockRepo struct{ a *access }

// Get devuelve una copia del saldo o nil.
func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.a.do(func(st *state) error {
		if b, ok := st.stock[key]; ok {
			c := *b
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que Get: la transacción ya tiene el estado en exclusiva.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	return r.Get(ctx, key)
}

// Save inserta (Version 0) o actualiza si Version coincide con la guardada.
func (r *StockRepo) Save(_ context.Context, balance *entity.StockBalance) error {
	return r.a.do(func(st *state) error {
		key := balance.Key()
		cur, ok := st.stock[key]
		switch {
		case balance.Version == 0 && ok:
			return domain.ErrConcurrentUpdate
		case balance.Version != 0 && (!ok || cur.Version != balance.Version):
			return domain.ErrConcurrentUpdate
		}
		balance.Version++
		c := *balance
		st.stock[key] = &c
		return nil
	})
}

// List filtra por producto y/o almacén.
func (r *StockRepo) List(_ context.Context, tenantID, productID, warehouseID string) ([]*entity.StockBalance, error) {
	return r.filter(func(b *entity.StockBalance) bool {
		return b.TenantID == tenantID &&
			(productID == "" || b.ProductID == productID) &&
			(warehouseID == "" || b.WarehouseID == warehouseID)
	})
}

// ListLow saldos en o bajo el mínimo.
func (r *StockRepo) ListLow(_ context.Context, tenantID string) ([]*entity.StockBalance, error) {
	return r.filter(func(b *entity.StockBalance) bool {
		return b.TenantID == tenantID && b.IsLow()
	})
}

func (r *StockRepo) filter(keep func(*entity.StockBalance) bool) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	err := r.a.do(func(st *state) error {
		for _, b := range st.stock {
			if keep(b) {
				c := *b
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}

// MovementRepo kardex en memoria (orden de inserción = orden cronológico).
type MovementRepo struct{ a *access }

// Create agrega un movimiento.
func (r *MovementRepo) Create(_ context.Context, movement *entity.InventoryMovement) error {
	return r.a.do(func(st *state) error {
		c := *movement
		st.movements = append(st.movements, &c)
		return nil
	})
}

// ListByProduct más reciente primero.
func (r *MovementRepo) ListByProduct(_ context.Context, tenantID, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, int, error) {
	var matched []*entity.InventoryMovement
	err := r.a.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.TenantID == tenantID && m.ProductID == productID && (warehouseID == "" || m.WarehouseID == warehouseID) {
				c := *m
				matched = append(matched, &c)
			}
		}
		return nil
	})
	return paginate(matched, limit, offset), len(matched), err
}

// Latest último movimiento de la clave.
func (r *MovementRepo) Latest(_ context.Context, key entity.StockKey) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.a.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.TenantID == key.TenantID && m.ProductID == key.ProductID && m.WarehouseID == key.WarehouseID {
				c := *m
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// SequenceRepo correlativos por tenant y serie.
type SequenceRepo struct{ a *access }

// Next incrementa y devuelve el correlativo.
func (r *SequenceRepo) Next(_ context.Context, tenantID, series string) (int64, error) {
	var n int64
	err := r.a.do(func(st *state) error {
		k := tenantID + "|" + series
		st.sequences[k]++
		n = st.sequences[k]
		return nil
	})
	return n, err
}
