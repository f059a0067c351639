package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo notas de crédito en memoria.
type CreditNoteRepo struct{ a *access }

// Create persiste la nota con sus detalles.
func (r *CreditNoteRepo) Create(_ context.Context, note *entity.CreditNote) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.notes[note.ID]; ok {
			return domain.ErrDuplicate
		}
		st.notes[note.ID] = copyNote(note)
		return nil
	})
}

// GetByID copia de la nota.
func (r *CreditNoteRepo) GetByID(_ context.Context, tenantID, id string) (*entity.CreditNote, error) {
	var out *entity.CreditNote
	err := r.a.do(func(st *state) error {
		if n, ok := st.notes[id]; ok && n.TenantID == tenantID {
			out = copyNote(n)
		}
		return nil
	})
	return out, err
}

// ListBySale notas de una venta por código.
func (r *CreditNoteRepo) ListBySale(_ context.Context, tenantID, saleID string) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	err := r.a.do(func(st *state) error {
		for _, n := range st.notes {
			if n.TenantID == tenantID && n.SaleID == saleID {
				out = append(out, copyNote(n))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

// ReturnedQuantity suma lo devuelto por notas APLICADA sobre un detalle de venta.
func (r *CreditNoteRepo) ReturnedQuantity(_ context.Context, tenantID, saleLineID string) (int, error) {
	total := 0
	err := r.a.do(func(st *state) error {
		for _, n := range st.notes {
			if n.TenantID != tenantID || n.Status != entity.CreditNoteAplicada {
				continue
			}
			for _, l := range n.Lines {
				if l.SaleLineID == saleLineID {
					total += l.Quantity
				}
			}
		}
		return nil
	})
	return total, err
}
