package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// MovementInput entrada del primitivo ApplyMovement.
type MovementInput struct {
	TenantID          string
	ProductID         string
	WarehouseID       string
	Kind              entity.MovementKind
	Quantity          int
	DocumentReference string
	ReasonID          string
	UserID            string
	// RequireExisting: si el saldo no existe devuelve ErrMissingStockRecord en vez de crearlo en 0.
	RequireExisting bool
}

// ApplyMovement es el único punto que modifica StockBalance. Corre dentro de la transacción del caller:
// bloquea la fila (SELECT FOR UPDATE), crea el saldo en 0 si no existe, valida salidas contra el saldo,
// guarda el saldo con control de versión y agrega el movimiento al kardex.
// Una salida mayor al saldo devuelve *domain.StockError (errors.Is(err, domain.ErrInsufficientStock)).
func ApplyMovement(ctx context.Context, repos repository.Repos, in MovementInput) (*entity.InventoryMovement, error) {
	if in.TenantID == "" || in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || !in.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}

	key := entity.StockKey{TenantID: in.TenantID, ProductID: in.ProductID, WarehouseID: in.WarehouseID}
	balance, err := repos.Stock.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		if in.RequireExisting {
			return nil, fmt.Errorf("%w: producto %s, almacén %s", domain.ErrMissingStockRecord, in.ProductID, in.WarehouseID)
		}
		balance = &entity.StockBalance{TenantID: in.TenantID, ProductID: in.ProductID, WarehouseID: in.WarehouseID}
	}

	before := balance.Quantity
	after, err := domaininv.ApplyKind(before, in.Kind, in.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, &domain.StockError{
				ProductID:   in.ProductID,
				WarehouseID: in.WarehouseID,
				Available:   before,
				Requested:   in.Quantity,
			}
		}
		return nil, err
	}

	now := time.Now()
	balance.Quantity = after
	balance.UpdatedAt = now
	if err := repos.Stock.Save(ctx, balance); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:                uuid.New().String(),
		TenantID:          in.TenantID,
		ProductID:         in.ProductID,
		WarehouseID:       in.WarehouseID,
		Kind:              in.Kind,
		Quantity:          in.Quantity,
		StockBefore:       before,
		StockAfter:        after,
		DocumentReference: in.DocumentReference,
		ReasonID:          in.ReasonID,
		UserID:            in.UserID,
		CreatedAt:         now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// WithProductName completa el nombre del producto en un *StockError para mensajes legibles.
// Cualquier otro error se devuelve tal cual.
func WithProductName(ctx context.Context, products repository.ProductRepository, tenantID string, err error) error {
	var se *domain.StockError
	if !errors.As(err, &se) || se.ProductName != "" || products == nil {
		return err
	}
	if p, _ := products.GetByID(ctx, tenantID, se.ProductID); p != nil {
		se.ProductName = p.Name
	}
	return err
}
