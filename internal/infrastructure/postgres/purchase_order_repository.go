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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus detalles.
type PurchaseOrderRepo struct {
	q    Querier
	lock bool
}

// NewPurchaseOrderRepository construye el adaptador. lock=true toma la cabecera FOR UPDATE.
func NewPurchaseOrderRepository(q Querier, lock bool) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q, lock: lock}
}

const orderColumns = `id, tenant_id, code, supplier_id, destination_warehouse_id, user_id, expected_date,
	payment_terms, notes, subtotal, discount, tax, total, status, created_at, updated_at`

const orderLineColumns = `id, order_id, product_id, quantity_ordered, quantity_received,
	unit_price, discount, subtotal, tax, total, notes`

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var userID *string
	err := row.Scan(&o.ID, &o.TenantID, &o.Code, &o.SupplierID, &o.DestinationWarehouseID, &userID,
		&o.ExpectedDate, &o.PaymentTerms, &o.Notes, &o.Subtotal, &o.Discount, &o.Tax, &o.Total,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.UserID = emptyIfNull(userID)
	return &o, nil
}

func scanOrderLine(row pgx.Row) (*entity.PurchaseOrderLine, error) {
	var l entity.PurchaseOrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.QuantityOrdered, &l.QuantityReceived,
		&l.UnitPrice, &l.Discount, &l.Subtotal, &l.Tax, &l.Total, &l.Notes)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste cabecera y detalles.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		o.ID, o.TenantID, o.Code, o.SupplierID, o.DestinationWarehouseID, nullIfEmpty(o.UserID),
		o.ExpectedDate, o.PaymentTerms, o.Notes, o.Subtotal, o.Discount, o.Tax, o.Total,
		o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.Code)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return r.insertLines(ctx, o)
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, o *entity.PurchaseOrder) error {
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (`+orderLineColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			l.ID, o.ID, l.ProductID, l.QuantityOrdered, l.QuantityReceived,
			l.UnitPrice, l.Discount, l.Subtotal, l.Tax, l.Total, l.Notes, i)
		if err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID carga cabecera y detalles; nil, nil si no existe en el tenant.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, forUpdate(`
		SELECT `+orderColumns+` FROM purchase_orders WHERE tenant_id = $1 AND id = $2`, r.lock), tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if o.Lines, err = r.lines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, orderID string) ([]entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderLineColumns+` FROM purchase_order_lines WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseOrderLine
	for rows.Next() {
		l, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

// Update actualiza solo la cabecera.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders
		SET supplier_id = $3, destination_warehouse_id = $4, expected_date = $5, payment_terms = $6, notes = $7,
		    subtotal = $8, discount = $9, tax = $10, total = $11, status = $12, updated_at = $13
		WHERE tenant_id = $1 AND id = $2`,
		o.TenantID, o.ID, o.SupplierID, o.DestinationWarehouseID, o.ExpectedDate, o.PaymentTerms, o.Notes,
		o.Subtotal, o.Discount, o.Tax, o.Total, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines borra y recrea los detalles de la orden.
func (r *PurchaseOrderRepo) ReplaceLines(ctx context.Context, o *entity.PurchaseOrder) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete purchase order lines: %w", err)
	}
	return r.insertLines(ctx, o)
}

// UpdateLine actualiza la cantidad recibida de un detalle.
func (r *PurchaseOrderRepo) UpdateLine(ctx context.Context, l *entity.PurchaseOrderLine) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_order_lines SET quantity_received = $2 WHERE id = $1`, l.ID, l.QuantityReceived)
	if err != nil {
		return fmt.Errorf("update purchase order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetLineByID busca un detalle en cualquier orden del tenant.
func (r *PurchaseOrderRepo) GetLineByID(ctx context.Context, tenantID, lineID string) (*entity.PurchaseOrderLine, error) {
	l, err := scanOrderLine(r.q.QueryRow(ctx, `
		SELECT l.id, l.order_id, l.product_id, l.quantity_ordered, l.quantity_received,
		       l.unit_price, l.discount, l.subtotal, l.tax, l.total, l.notes
		FROM purchase_order_lines l
		JOIN purchase_orders o ON o.id = l.order_id
		WHERE o.tenant_id = $1 AND l.id = $2`, tenantID, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order line: %w", err)
	}
	return l, nil
}

// List página de órdenes (status vacío = todas), más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, tenantID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	const filter = `WHERE tenant_id = $1 AND ($2 = '' OR status = $2)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders `+filter, tenantID, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+` FROM purchase_orders `+filter+`
		ORDER BY created_at DESC, code DESC LIMIT $3 OFFSET $4`, tenantID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()
	for _, o := range list {
		if o.Lines, err = r.lines(ctx, o.ID); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}
