package memory

import "github.com/jhoicas/kardex-api/internal/domain/entity"

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Lines = append([]entity.PurchaseOrderLine(nil), o.Lines...)
	return &c
}

func copyReceipt(r *entity.PurchaseReceipt) *entity.PurchaseReceipt {
	c := *r
	c.Lines = append([]entity.ReceiptLine(nil), r.Lines...)
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	c.Payments = append([]entity.Payment(nil), s.Payments...)
	return &c
}

func copyTransfer(t *entity.Transfer) *entity.Transfer {
	c := *t
	c.Lines = append([]entity.TransferLine(nil), t.Lines...)
	return &c
}

func copyNote(n *entity.CreditNote) *entity.CreditNote {
	c := *n
	c.Lines = append([]entity.CreditNoteLine(nil), n.Lines...)
	return &c
}

// paginate corta la página [offset, offset+limit); limit <= 0 devuelve el resto.
func paginate[T any](all []T, limit, offset int) []T {
	total := len(all)
	if offset >= total {
		return []T{}
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end]
}
