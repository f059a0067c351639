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

var (
	_ repository.SaleRepository        = (*SaleRepo)(nil)
	_ repository.CashSessionRepository = (*CashSessionRepo)(nil)
	_ repository.CashMovementRepository = (*CashMovementRepo)(nil)
)

// SaleRepo ventas, detalles y pagos.
type SaleRepo struct {
	q    Querier
	lock bool
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier, lock bool) *SaleRepo {
	return &SaleRepo{q: q, lock: lock}
}

const saleColumns = `id, tenant_id, code, cash_session_id, customer_id, warehouse_id, user_id,
	subtotal, discount, tax, total, amount_received, change, status, paid_at, notes, created_at, updated_at`

const saleLineColumns = `id, sale_id, product_id, product_name, quantity, unit_price, discount, subtotal`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var sessionID, customerID, userID *string
	err := row.Scan(&s.ID, &s.TenantID, &s.Code, &sessionID, &customerID, &s.WarehouseID, &userID,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.AmountReceived, &s.Change, &s.Status,
		&s.PaidAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.CashSessionID = emptyIfNull(sessionID)
	s.CustomerID = emptyIfNull(customerID)
	s.UserID = emptyIfNull(userID)
	return &s, nil
}

func scanSaleLine(row pgx.Row) (*entity.SaleLine, error) {
	var l entity.SaleLine
	if err := row.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName, &l.Quantity,
		&l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste cabecera y detalles (los pagos llegan al confirmar).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.TenantID, s.Code, nullIfEmpty(s.CashSessionID), nullIfEmpty(s.CustomerID), s.WarehouseID,
		nullIfEmpty(s.UserID), s.Subtotal, s.Discount, s.Tax, s.Total, s.AmountReceived, s.Change,
		s.Status, s.PaidAt, s.Notes, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.Code)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (`+saleLineColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, s.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal, i)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	for _, p := range s.Payments {
		if err := r.CreatePayment(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}

// GetByID carga la venta con detalles y pagos; nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, forUpdate(`
		SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, r.lock), tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadLines(ctx, s); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) loadLines(ctx context.Context, s *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleLineColumns+` FROM sale_lines WHERE sale_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanSaleLine(rows)
		if err != nil {
			return fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, *l)
	}
	return rows.Err()
}

func (r *SaleRepo) loadPayments(ctx context.Context, s *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, payment_method_id, amount, reference, payment_order
		FROM payments WHERE sale_id = $1 ORDER BY payment_order`, s.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.PaymentMethodID, &p.Amount, &p.Reference, &p.Order); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		s.Payments = append(s.Payments, p)
	}
	return rows.Err()
}

// Update actualiza solo la cabecera.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales
		SET amount_received = $3, change = $4, status = $5, paid_at = $6, notes = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`,
		s.TenantID, s.ID, s.AmountReceived, s.Change, s.Status, s.PaidAt, s.Notes, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePayment registra un pago de la venta.
func (r *SaleRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, sale_id, payment_method_id, amount, reference, payment_order)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.SaleID, p.PaymentMethodID, p.Amount, p.Reference, p.Order)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetLineByID busca un detalle en cualquier venta del tenant.
func (r *SaleRepo) GetLineByID(ctx context.Context, tenantID, lineID string) (*entity.SaleLine, error) {
	l, err := scanSaleLine(r.q.QueryRow(ctx, `
		SELECT l.id, l.sale_id, l.product_id, l.product_name, l.quantity, l.unit_price, l.discount, l.subtotal
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		WHERE s.tenant_id = $1 AND l.id = $2`, tenantID, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale line: %w", err)
	}
	return l, nil
}

// List cabeceras filtradas, más recientes primero. No carga detalles ni pagos.
func (r *SaleRepo) List(ctx context.Context, tenantID string, f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	const filter = `WHERE tenant_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR customer_id = $3)
		AND ($4::timestamptz IS NULL OR created_at >= $4)`
	var from *time.Time
	if !f.From.IsZero() {
		from = &f.From
	}
	args := []any{tenantID, string(f.Status), f.CustomerID, from}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales `+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales `+filter+`
		ORDER BY created_at DESC, code DESC LIMIT $5 OFFSET $6`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// CashSessionRepo sesiones de caja.
type CashSessionRepo struct {
	q    Querier
	lock bool
}

// NewCashSessionRepository construye el adaptador.
func NewCashSessionRepository(q Querier, lock bool) *CashSessionRepo {
	return &CashSessionRepo{q: q, lock: lock}
}

const cashSessionColumns = `id, tenant_id, register_id, user_id, opening_amount, total_sales,
	closing_amount, difference, status, notes, opened_at, closed_at`

func scanCashSession(row pgx.Row) (*entity.CashSession, error) {
	var cs entity.CashSession
	err := row.Scan(&cs.ID, &cs.TenantID, &cs.RegisterID, &cs.UserID, &cs.OpeningAmount, &cs.TotalSales,
		&cs.ClosingAmount, &cs.Difference, &cs.Status, &cs.Notes, &cs.OpenedAt, &cs.ClosedAt)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// Create abre la sesión. El índice único parcial impide dos ABIERTA por usuario.
func (r *CashSessionRepo) Create(ctx context.Context, cs *entity.CashSession) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_sessions (`+cashSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		cs.ID, cs.TenantID, cs.RegisterID, cs.UserID, cs.OpeningAmount, cs.TotalSales,
		cs.ClosingAmount, cs.Difference, cs.Status, cs.Notes, cs.OpenedAt, cs.ClosedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario ya tiene una sesión de caja abierta", domain.ErrConflict)
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	return nil
}

// GetByID obtiene la sesión; nil, nil si no existe.
func (r *CashSessionRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.CashSession, error) {
	cs, err := scanCashSession(r.q.QueryRow(ctx, forUpdate(`
		SELECT `+cashSessionColumns+` FROM cash_sessions WHERE tenant_id = $1 AND id = $2`, r.lock), tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	return cs, nil
}

// GetOpenByUser sesión ABIERTA del usuario; nil, nil si no tiene.
func (r *CashSessionRepo) GetOpenByUser(ctx context.Context, tenantID, userID string) (*entity.CashSession, error) {
	cs, err := scanCashSession(r.q.QueryRow(ctx, `
		SELECT `+cashSessionColumns+` FROM cash_sessions
		WHERE tenant_id = $1 AND user_id = $2 AND status = 'ABIERTA'`, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash session: %w", err)
	}
	return cs, nil
}

// Update actualiza totales y cierre.
func (r *CashSessionRepo) Update(ctx context.Context, cs *entity.CashSession) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE cash_sessions
		SET total_sales = $3, closing_amount = $4, difference = $5, status = $6, notes = $7, closed_at = $8
		WHERE tenant_id = $1 AND id = $2`,
		cs.TenantID, cs.ID, cs.TotalSales, cs.ClosingAmount, cs.Difference, cs.Status, cs.Notes, cs.ClosedAt)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List sesiones filtradas por estado y caja, más recientes primero.
func (r *CashSessionRepo) List(ctx context.Context, tenantID string, status entity.CashSessionStatus, registerID string, limit, offset int) ([]*entity.CashSession, int, error) {
	const filter = `WHERE tenant_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR register_id = $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM cash_sessions `+filter,
		tenantID, string(status), registerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cash sessions: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+cashSessionColumns+` FROM cash_sessions `+filter+`
		ORDER BY opened_at DESC, id DESC LIMIT $4 OFFSET $5`, tenantID, string(status), registerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		cs, err := scanCashSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cash session: %w", err)
		}
		list = append(list, cs)
	}
	return list, total, rows.Err()
}

// CashMovementRepo ingresos y egresos de caja.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador.
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create inserta el movimiento.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_movements (id, tenant_id, session_id, kind, amount, reason, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.TenantID, m.SessionID, m.Kind, m.Amount, m.Reason, m.Description, nullIfEmpty(m.UserID), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// ListBySession movimientos de la sesión en orden de registro.
func (r *CashMovementRepo) ListBySession(ctx context.Context, tenantID, sessionID string) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, session_id, kind, amount, reason, description, user_id, created_at
		FROM cash_movements WHERE tenant_id = $1 AND session_id = $2
		ORDER BY created_at, id`, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		var userID *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.SessionID, &m.Kind, &m.Amount, &m.Reason,
			&m.Description, &userID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		m.UserID = emptyIfNull(userID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
