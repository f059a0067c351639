package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `tenant_id, product_id, warehouse_id, quantity, min_quantity, version, updated_at`

func scanStock(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	if err := row.Scan(&b.TenantID, &b.ProductID, &b.WarehouseID, &b.Quantity, &b.MinQuantity, &b.Version, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo; nil, nil si no existe.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	return r.get(ctx, key, false)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	return r.get(ctx, key, true)
}

func (r *StockRepo) get(ctx context.Context, key entity.StockKey, lock bool) (*entity.StockBalance, error) {
	query := forUpdate(`
		SELECT `+stockColumns+`
		FROM stock_balances WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3`, lock)
	b, err := scanStock(r.q.QueryRow(ctx, query, key.TenantID, key.ProductID, key.WarehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return b, nil
}

// Save inserta (Version 0) o actualiza si la versión leída sigue vigente.
// Un insert que pierde contra otra tx o un update sin filas devuelve ErrConcurrentUpdate.
func (r *StockRepo) Save(ctx context.Context, b *entity.StockBalance) error {
	now := time.Now()
	if b.Version == 0 {
		tag, err := r.q.Exec(ctx, `
			INSERT INTO stock_balances (`+stockColumns+`)
			VALUES ($1, $2, $3, $4, $5, 1, $6)
			ON CONFLICT (tenant_id, product_id, warehouse_id) DO NOTHING`,
			b.TenantID, b.ProductID, b.WarehouseID, b.Quantity, b.MinQuantity, now)
		if err != nil {
			return fmt.Errorf("insert stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: saldo %s/%s creado por otra operación", domain.ErrConcurrentUpdate, b.ProductID, b.WarehouseID)
		}
		b.Version = 1
		b.UpdatedAt = now
		return nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_balances
		SET quantity = $4, min_quantity = $5, version = version + 1, updated_at = $6
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3 AND version = $7`,
		b.TenantID, b.ProductID, b.WarehouseID, b.Quantity, b.MinQuantity, now, b.Version)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: saldo %s/%s", domain.ErrConcurrentUpdate, b.ProductID, b.WarehouseID)
	}
	b.Version++
	b.UpdatedAt = now
	return nil
}

// List filtra por producto y/o almacén (vacío = todos).
func (r *StockRepo) List(ctx context.Context, tenantID, productID, warehouseID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, `
		SELECT `+stockColumns+`
		FROM stock_balances
		WHERE tenant_id = $1 AND ($2 = '' OR product_id = $2) AND ($3 = '' OR warehouse_id = $3)
		ORDER BY product_id, warehouse_id`, tenantID, productID, warehouseID)
}

// ListLow saldos en o bajo su mínimo.
func (r *StockRepo) ListLow(ctx context.Context, tenantID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, `
		SELECT `+stockColumns+`
		FROM stock_balances
		WHERE tenant_id = $1 AND min_quantity > 0 AND quantity <= min_quantity
		ORDER BY product_id, warehouse_id`, tenantID)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		b, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
