package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository   = (*PurchaseOrderRepo)(nil)
	_ repository.PurchaseReceiptRepository = (*ReceiptRepo)(nil)
)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct{ a *access }

// Create persiste cabecera y detalles.
func (r *PurchaseOrderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[order.ID] = copyOrder(order)
		return nil
	})
}

// GetByID copia de la orden con sus detalles.
func (r *PurchaseOrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.a.do(func(st *state) error {
		if o, ok := st.orders[id]; ok && o.TenantID == tenantID {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

// Update actualiza la cabecera; los detalles se conservan.
func (r *PurchaseOrderRepo) Update(_ context.Context, order *entity.PurchaseOrder) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *order
		c.Lines = cur.Lines
		st.orders[order.ID] = &c
		return nil
	})
}

// ReplaceLines reemplaza todos los detalles de la orden.
func (r *PurchaseOrderRepo) ReplaceLines(_ context.Context, order *entity.PurchaseOrder) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Lines = append([]entity.PurchaseOrderLine(nil), order.Lines...)
		return nil
	})
}

// UpdateLine guarda las cantidades de un detalle.
func (r *PurchaseOrderRepo) UpdateLine(_ context.Context, line *entity.PurchaseOrderLine) error {
	return r.a.do(func(st *state) error {
		o, ok := st.orders[line.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range o.Lines {
			if o.Lines[i].ID == line.ID {
				o.Lines[i] = *line
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// GetLineByID busca el detalle en cualquier orden del tenant.
func (r *PurchaseOrderRepo) GetLineByID(_ context.Context, tenantID, lineID string) (*entity.PurchaseOrderLine, error) {
	var out *entity.PurchaseOrderLine
	err := r.a.do(func(st *state) error {
		for _, o := range st.orders {
			if o.TenantID != tenantID {
				continue
			}
			if l, ok := o.Line(lineID); ok {
				c := *l
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List órdenes del tenant, más recientes primero.
func (r *PurchaseOrderRepo) List(_ context.Context, tenantID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	var all []*entity.PurchaseOrder
	err := r.a.do(func(st *state) error {
		for _, o := range st.orders {
			if o.TenantID == tenantID && (status == "" || o.Status == status) {
				all = append(all, copyOrder(o))
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code > all[j].Code
	})
	return paginate(all, limit, offset), len(all), err
}

// ReceiptRepo recepciones en memoria.
type ReceiptRepo struct{ a *access }

// Create persiste la recepción con sus detalles.
func (r *ReceiptRepo) Create(_ context.Context, receipt *entity.PurchaseReceipt) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.receipts[receipt.ID]; ok {
			return domain.ErrDuplicate
		}
		st.receipts[receipt.ID] = copyReceipt(receipt)
		return nil
	})
}

// GetByID copia de la recepción.
func (r *ReceiptRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseReceipt, error) {
	var out *entity.PurchaseReceipt
	err := r.a.do(func(st *state) error {
		if rc, ok := st.receipts[id]; ok && rc.TenantID == tenantID {
			out = copyReceipt(rc)
		}
		return nil
	})
	return out, err
}

// List recepciones filtradas por orden y estado, más recientes primero.
func (r *ReceiptRepo) List(_ context.Context, tenantID, orderID string, status entity.ReceiptStatus, limit, offset int) ([]*entity.PurchaseReceipt, int, error) {
	var all []*entity.PurchaseReceipt
	err := r.a.do(func(st *state) error {
		for _, rc := range st.receipts {
			if rc.TenantID != tenantID {
				continue
			}
			if (orderID == "" || rc.OrderID == orderID) && (status == "" || rc.Status == status) {
				all = append(all, copyReceipt(rc))
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code > all[j].Code
	})
	return paginate(all, limit, offset), len(all), err
}

// Update actualiza la cabecera.
func (r *ReceiptRepo) Update(_ context.Context, receipt *entity.PurchaseReceipt) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.receipts[receipt.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *receipt
		c.Lines = cur.Lines
		st.receipts[receipt.ID] = &c
		return nil
	})
}

// ListByOrder recepciones de una orden por código.
func (r *ReceiptRepo) ListByOrder(_ context.Context, tenantID, orderID string) ([]*entity.PurchaseReceipt, error) {
	var out []*entity.PurchaseReceipt
	err := r.a.do(func(st *state) error {
		for _, rc := range st.receipts {
			if rc.TenantID == tenantID && rc.OrderID == orderID {
				out = append(out, copyReceipt(rc))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}
