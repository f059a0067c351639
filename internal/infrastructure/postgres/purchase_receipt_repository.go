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

var _ repository.PurchaseReceiptRepository = (*PurchaseReceiptRepo)(nil)

// PurchaseReceiptRepo recepciones de compra.
type PurchaseReceiptRepo struct {
	q    Querier
	lock bool
}

// NewPurchaseReceiptRepository construye el adaptador.
func NewPurchaseReceiptRepository(q Querier, lock bool) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{q: q, lock: lock}
}

const receiptColumns = `id, tenant_id, code, order_id, warehouse_id, received_by_id, guide_number, notes,
	is_full_reception, status, received_at, created_at, updated_at`

func scanReceipt(row pgx.Row) (*entity.PurchaseReceipt, error) {
	var rc entity.PurchaseReceipt
	var receivedBy *string
	err := row.Scan(&rc.ID, &rc.TenantID, &rc.Code, &rc.OrderID, &rc.WarehouseID, &receivedBy,
		&rc.GuideNumber, &rc.Notes, &rc.IsFullReception, &rc.Status, &rc.ReceivedAt, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rc.ReceivedByID = emptyIfNull(receivedBy)
	return &rc, nil
}

// Create persiste la recepción con sus detalles.
func (r *PurchaseReceiptRepo) Create(ctx context.Context, rc *entity.PurchaseReceipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_receipts (`+receiptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rc.ID, rc.TenantID, rc.Code, rc.OrderID, rc.WarehouseID, nullIfEmpty(rc.ReceivedByID),
		rc.GuideNumber, rc.Notes, rc.IsFullReception, rc.Status, rc.ReceivedAt, rc.CreatedAt, rc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recepción %s", domain.ErrDuplicate, rc.Code)
		}
		return fmt.Errorf("insert purchase receipt: %w", err)
	}
	for i, l := range rc.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_receipt_lines (id, receipt_id, order_line_id, product_id,
			    quantity_received, quantity_accepted, quantity_rejected, rejection_reason, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, rc.ID, l.OrderLineID, l.ProductID, l.QuantityReceived, l.QuantityAccepted,
			l.QuantityRejected, l.RejectionReason, i)
		if err != nil {
			return fmt.Errorf("insert purchase receipt line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la recepción con sus detalles; nil, nil si no existe.
func (r *PurchaseReceiptRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseReceipt, error) {
	rc, err := scanReceipt(r.q.QueryRow(ctx, forUpdate(`
		SELECT `+receiptColumns+` FROM purchase_receipts WHERE tenant_id = $1 AND id = $2`, r.lock), tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	if rc.Lines, err = r.lines(ctx, rc.ID); err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *PurchaseReceiptRepo) lines(ctx context.Context, receiptID string) ([]entity.ReceiptLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, order_line_id, product_id, quantity_received, quantity_accepted,
		       quantity_rejected, rejection_reason
		FROM purchase_receipt_lines WHERE receipt_id = $1 ORDER BY position`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list purchase receipt lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.ReceiptLine
	for rows.Next() {
		var l entity.ReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.OrderLineID, &l.ProductID, &l.QuantityReceived,
			&l.QuantityAccepted, &l.QuantityRejected, &l.RejectionReason); err != nil {
			return nil, fmt.Errorf("scan purchase receipt line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update actualiza la cabecera.
func (r *PurchaseReceiptRepo) Update(ctx context.Context, rc *entity.PurchaseReceipt) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_receipts
		SET guide_number = $3, notes = $4, is_full_reception = $5, status = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`,
		rc.TenantID, rc.ID, rc.GuideNumber, rc.Notes, rc.IsFullReception, rc.Status, rc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrder recepciones de una orden por código.
func (r *PurchaseReceiptRepo) ListByOrder(ctx context.Context, tenantID, orderID string) ([]*entity.PurchaseReceipt, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+receiptColumns+` FROM purchase_receipts
		WHERE tenant_id = $1 AND order_id = $2 ORDER BY code`, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReceipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase receipt: %w", err)
		}
		list = append(list, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	for _, rc := range list {
		if rc.Lines, err = r.lines(ctx, rc.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// List página de recepciones filtrada por orden y estado, más recientes primero.
func (r *PurchaseReceiptRepo) List(ctx context.Context, tenantID, orderID string, status entity.ReceiptStatus, limit, offset int) ([]*entity.PurchaseReceipt, int, error) {
	const filter = `WHERE tenant_id = $1 AND ($2 = '' OR order_id = $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_receipts `+filter,
		tenantID, orderID, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase receipts: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+receiptColumns+` FROM purchase_receipts `+filter+`
		ORDER BY created_at DESC, code DESC LIMIT $4 OFFSET $5`, tenantID, orderID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReceipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase receipt: %w", err)
		}
		list = append(list, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()
	for _, rc := range list {
		if rc.Lines, err = r.lines(ctx, rc.ID); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}
