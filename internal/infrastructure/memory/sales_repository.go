package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository        = (*SaleRepo)(nil)
	_ repository.CashSessionRepository = (*CashSessionRepo)(nil)
	_ repository.CashMovementRepository = (*CashMovementRepo)(nil)
)

// SaleRepo ventas en memoria.
type SaleRepo struct{ a *access }

// Create persiste la venta con sus detalles.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

// GetByID copia de la venta con detalles y pagos.
func (r *SaleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.do(func(st *state) error {
		if s, ok := st.sales[id]; ok && s.TenantID == tenantID {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

// Update actualiza la cabecera; detalles y pagos se conservan.
func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *sale
		c.Lines = cur.Lines
		c.Payments = cur.Payments
		st.sales[sale.ID] = &c
		return nil
	})
}

// CreatePayment agrega un pago a la venta.
func (r *SaleRepo) CreatePayment(_ context.Context, payment *entity.Payment) error {
	return r.a.do(func(st *state) error {
		s, ok := st.sales[payment.SaleID]
		if !ok {
			return domain.ErrNotFound
		}
		s.Payments = append(s.Payments, *payment)
		return nil
	})
}

// GetLineByID busca el detalle en cualquier venta del tenant.
func (r *SaleRepo) GetLineByID(_ context.Context, tenantID, lineID string) (*entity.SaleLine, error) {
	var out *entity.SaleLine
	err := r.a.do(func(st *state) error {
		for _, s := range st.sales {
			if s.TenantID != tenantID {
				continue
			}
			if l, ok := s.Line(lineID); ok {
				c := *l
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List cabeceras filtradas, más recientes primero.
func (r *SaleRepo) List(_ context.Context, tenantID string, f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	var all []*entity.Sale
	err := r.a.do(func(st *state) error {
		for _, s := range st.sales {
			if s.TenantID != tenantID {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
				continue
			}
			c := *s
			c.Lines, c.Payments = nil, nil
			all = append(all, &c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code > all[j].Code
	})
	return paginate(all, limit, offset), len(all), nil
}

// CashSessionRepo sesiones de caja en memoria.
type CashSessionRepo struct{ a *access }

// Create persiste la sesión.
func (r *CashSessionRepo) Create(_ context.Context, session *entity.CashSession) error {
	return r.a.do(func(st *state) error {
		c := *session
		st.sessions[session.ID] = &c
		return nil
	})
}

// GetByID copia de la sesión.
func (r *CashSessionRepo) GetByID(_ context.Context, tenantID, id string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.a.do(func(st *state) error {
		if s, ok := st.sessions[id]; ok && s.TenantID == tenantID {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

// GetOpenByUser sesión ABIERTA del usuario.
func (r *CashSessionRepo) GetOpenByUser(_ context.Context, tenantID, userID string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.a.do(func(st *state) error {
		for _, s := range st.sessions {
			if s.TenantID == tenantID && s.UserID == userID && s.Status == entity.CashSessionAbierta {
				c := *s
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza la sesión.
func (r *CashSessionRepo) Update(_ context.Context, session *entity.CashSession) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.sessions[session.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *session
		st.sessions[session.ID] = &c
		return nil
	})
}

// List sesiones filtradas por estado y caja, más recientes primero.
func (r *CashSessionRepo) List(_ context.Context, tenantID string, status entity.CashSessionStatus, registerID string, limit, offset int) ([]*entity.CashSession, int, error) {
	var all []*entity.CashSession
	err := r.a.do(func(st *state) error {
		for _, s := range st.sessions {
			if s.TenantID != tenantID {
				continue
			}
			if status != "" && s.Status != status {
				continue
			}
			if registerID != "" && s.RegisterID != registerID {
				continue
			}
			c := *s
			all = append(all, &c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].OpenedAt.Equal(all[j].OpenedAt) {
			return all[i].OpenedAt.After(all[j].OpenedAt)
		}
		return all[i].ID > all[j].ID
	})
	return paginate(all, limit, offset), len(all), nil
}

// CashMovementRepo ingresos y egresos de caja en memoria.
type CashMovementRepo struct{ a *access }

// Create agrega el movimiento; nunca se modifica después.
func (r *CashMovementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	return r.a.do(func(st *state) error {
		c := *m
		st.cashMovements = append(st.cashMovements, &c)
		return nil
	})
}

// ListBySession movimientos de la sesión en orden de registro.
func (r *CashMovementRepo) ListBySession(_ context.Context, tenantID, sessionID string) ([]*entity.CashMovement, error) {
	var out []*entity.CashMovement
	err := r.a.do(func(st *state) error {
		for _, m := range st.cashMovements {
			if m.TenantID == tenantID && m.SessionID == sessionID {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
