package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo transferencias en memoria.
type TransferRepo struct{ a *access }

// Create persiste la transferencia con sus detalles.
func (r *TransferRepo) Create(_ context.Context, transfer *entity.Transfer) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.transfers[transfer.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[transfer.ID] = copyTransfer(transfer)
		return nil
	})
}

// GetByID copia de la transferencia.
func (r *TransferRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.a.do(func(st *state) error {
		if t, ok := st.transfers[id]; ok && t.TenantID == tenantID {
			out = copyTransfer(t)
		}
		return nil
	})
	return out, err
}

// Update actualiza la cabecera.
func (r *TransferRepo) Update(_ context.Context, transfer *entity.Transfer) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.transfers[transfer.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *transfer
		c.Lines = cur.Lines
		st.transfers[transfer.ID] = &c
		return nil
	})
}
