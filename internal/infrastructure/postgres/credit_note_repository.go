package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo notas de crédito.
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador.
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

const creditNoteColumns = `id, tenant_id, code, sale_id, reason, user_id, subtotal, tax, total, status, refunded_at, created_at`

func scanCreditNote(row pgx.Row) (*entity.CreditNote, error) {
	var n entity.CreditNote
	var userID *string
	err := row.Scan(&n.ID, &n.TenantID, &n.Code, &n.SaleID, &n.Reason, &userID,
		&n.Subtotal, &n.Tax, &n.Total, &n.Status, &n.RefundedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.UserID = emptyIfNull(userID)
	return &n, nil
}

// Create persiste la nota y sus detalles.
func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO credit_notes (`+creditNoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.TenantID, n.Code, n.SaleID, n.Reason, nullIfEmpty(n.UserID),
		n.Subtotal, n.Tax, n.Total, n.Status, n.RefundedAt, n.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nota de crédito %s", domain.ErrDuplicate, n.Code)
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	for i, l := range n.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO credit_note_lines (id, credit_note_id, sale_line_id, product_id, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, n.ID, l.SaleLineID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal, i)
		if err != nil {
			return fmt.Errorf("insert credit note line: %w", err)
		}
	}
	return nil
}

// GetByID nota con detalles; nil, nil si no existe.
func (r *CreditNoteRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.CreditNote, error) {
	n, err := scanCreditNote(r.q.QueryRow(ctx, `
		SELECT `+creditNoteColumns+` FROM credit_notes WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	if n.Lines, err = r.lines(ctx, n.ID); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *CreditNoteRepo) lines(ctx context.Context, noteID string) ([]entity.CreditNoteLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, credit_note_id, sale_line_id, product_id, quantity, unit_price, subtotal
		FROM credit_note_lines WHERE credit_note_id = $1 ORDER BY position`, noteID)
	if err != nil {
		return nil, fmt.Errorf("list credit note lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.CreditNoteLine
	for rows.Next() {
		var l entity.CreditNoteLine
		if err := rows.Scan(&l.ID, &l.CreditNoteID, &l.SaleLineID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan credit note line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListBySale notas de una venta por código.
func (r *CreditNoteRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.CreditNote, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+creditNoteColumns+` FROM credit_notes
		WHERE tenant_id = $1 AND sale_id = $2 ORDER BY code`, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditNote
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	for _, n := range list {
		if n.Lines, err = r.lines(ctx, n.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ReturnedQuantity suma lo devuelto por notas APLICADA sobre un detalle de venta.
func (r *CreditNoteRepo) ReturnedQuantity(ctx context.Context, tenantID, saleLineID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM credit_note_lines l
		JOIN credit_notes n ON n.id = l.credit_note_id
		WHERE n.tenant_id = $1 AND l.sale_line_id = $2 AND n.status = 'APLICADA'`,
		tenantID, saleLineID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("returned quantity: %w", err)
	}
	return total, nil
}
