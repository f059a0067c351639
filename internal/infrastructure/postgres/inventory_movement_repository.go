package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo kardex sobre PostgreSQL. Solo inserta; seq fija el orden dentro del mismo instante.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, product_id, warehouse_id, kind, quantity, stock_before, stock_after,
	document_reference, reason_id, user_id, created_at`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var reasonID, userID *string
	err := row.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.WarehouseID, &m.Kind, &m.Quantity,
		&m.StockBefore, &m.StockAfter, &m.DocumentReference, &reasonID, &userID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ReasonID = emptyIfNull(reasonID)
	m.UserID = emptyIfNull(userID)
	return &m, nil
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.TenantID, m.ProductID, m.WarehouseID, m.Kind, m.Quantity, m.StockBefore, m.StockAfter,
		m.DocumentReference, nullIfEmpty(m.ReasonID), nullIfEmpty(m.UserID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByProduct página de movimientos, más reciente primero. warehouseID vacío = todos.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, tenantID, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, int, error) {
	const filter = `WHERE tenant_id = $1 AND product_id = $2 AND ($3 = '' OR warehouse_id = $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_movements `+filter,
		tenantID, productID, warehouseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements `+filter+`
		ORDER BY created_at DESC, seq DESC
		LIMIT $4 OFFSET $5`, tenantID, productID, warehouseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryMovement, 0, limit)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// Latest último movimiento de la clave; nil, nil si no hay.
func (r *InventoryMovementRepo) Latest(ctx context.Context, key entity.StockKey) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3
		ORDER BY created_at DESC, seq DESC LIMIT 1`, key.TenantID, key.ProductID, key.WarehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest movement: %w", err)
	}
	return m, nil
}
