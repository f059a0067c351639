package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SaleFilter criterios del listado de ventas; los campos vacíos no filtran.
// From incluye las ventas creadas desde ese instante.
type SaleFilter struct {
	Status     entity.SaleStatus
	CustomerID string
	From       time.Time
}

// SaleRepository define el puerto de persistencia para ventas, detalles y pagos.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	GetLineByID(ctx context.Context, tenantID, lineID string) (*entity.SaleLine, error)
	// List devuelve cabeceras (sin detalles ni pagos), más recientes primero, y el total.
	List(ctx context.Context, tenantID string, filter SaleFilter, limit, offset int) ([]*entity.Sale, int, error)
}

// CashSessionRepository define el puerto de persistencia para sesiones de caja.
type CashSessionRepository interface {
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.CashSession, error)
	// GetOpenByUser sesión ABIERTA del usuario; nil, nil si no tiene.
	GetOpenByUser(ctx context.Context, tenantID, userID string) (*entity.CashSession, error)
	Update(ctx context.Context, session *entity.CashSession) error
	// List filtra por estado y caja (vacío = todos), más recientes primero.
	List(ctx context.Context, tenantID string, status entity.CashSessionStatus, registerID string, limit, offset int) ([]*entity.CashSession, int, error)
}

// CashMovementRepository ingresos y egresos manuales de caja (solo inserción).
type CashMovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	// ListBySession en orden de registro.
	ListBySession(ctx context.Context, tenantID, sessionID string) ([]*entity.CashMovement, error)
}
