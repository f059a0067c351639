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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo transferencias entre almacenes.
type TransferRepo struct {
	q    Querier
	lock bool
}

// NewTransferRepository construye el adaptador.
func NewTransferRepository(q Querier, lock bool) *TransferRepo {
	return &TransferRepo{q: q, lock: lock}
}

const transferColumns = `id, tenant_id, code, source_warehouse_id, destination_warehouse_id, reason, notes,
	requested_by_id, approved_by_id, approved_at, status, created_at, updated_at`

// Create persiste cabecera y detalles.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.TenantID, t.Code, t.SourceWarehouseID, t.DestinationWarehouseID, t.Reason, t.Notes,
		nullIfEmpty(t.RequestedByID), nullIfEmpty(t.ApprovedByID), t.ApprovedAt, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transferencia %s", domain.ErrDuplicate, t.Code)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	for i, l := range t.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transfer_lines (id, transfer_id, product_id, quantity, position)
			VALUES ($1, $2, $3, $4, $5)`, l.ID, t.ID, l.ProductID, l.Quantity, i)
		if err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

// GetByID carga la transferencia con sus detalles; nil, nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	var t entity.Transfer
	var requestedBy, approvedBy *string
	err := r.q.QueryRow(ctx, forUpdate(`
		SELECT `+transferColumns+` FROM transfers WHERE tenant_id = $1 AND id = $2`, r.lock), tenantID, id).Scan(
		&t.ID, &t.TenantID, &t.Code, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.Reason, &t.Notes,
		&requestedBy, &approvedBy, &t.ApprovedAt, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	t.RequestedByID = emptyIfNull(requestedBy)
	t.ApprovedByID = emptyIfNull(approvedBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity FROM transfer_lines
		WHERE transfer_id = $1 ORDER BY position`, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return &t, rows.Err()
}

// Update actualiza estado y aprobación.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET approved_by_id = $3, approved_at = $4, status = $5, notes = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`,
		t.TenantID, t.ID, nullIfEmpty(t.ApprovedByID), t.ApprovedAt, t.Status, t.Notes, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
