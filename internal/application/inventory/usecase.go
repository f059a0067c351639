package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// UseCase consultas de stock y kardex, ajustes manuales y configuración de mínimos.
type UseCase struct {
	tx   ports.TxRunner
	read repository.Repos
	log  *logger.Logger
}

// NewUseCase construye el caso de uso. read son repositorios sobre el pool (fuera de transacción).
func NewUseCase(tx ports.TxRunner, read repository.Repos, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, read: read, log: log.Component("inventory")}
}

// CurrentStock saldos del tenant filtrados por producto y/o almacén (vacío = todos).
func (uc *UseCase) CurrentStock(ctx context.Context, tenantID, productID, warehouseID string) (*dto.StockListResponse, error) {
	list, err := uc.read.Stock.List(ctx, tenantID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.toStockList(ctx, tenantID, list), nil
}

// LowStock saldos en o bajo su mínimo configurado.
func (uc *UseCase) LowStock(ctx context.Context, tenantID string) (*dto.StockListResponse, error) {
	list, err := uc.read.Stock.ListLow(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return uc.toStockList(ctx, tenantID, list), nil
}

// History kardex de un producto (opcionalmente de un almacén), más reciente primero.
func (uc *UseCase) History(ctx context.Context, tenantID, productID, warehouseID string, page dto.PageRequest) (*dto.KardexResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, total, err := uc.read.Movements.ListByProduct(ctx, tenantID, productID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.KardexResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Adjust registra un ajuste manual (AJUSTE_INGRESO / AJUSTE_EGRESO) en su propia transacción.
// Un egreso sobre un saldo inexistente es ErrMissingStockRecord.
func (uc *UseCase) Adjust(ctx context.Context, tenantID, userID string, in dto.AdjustmentRequest) (*dto.MovementResponse, error) {
	kind := entity.MovementKind(in.Kind)
	if kind != entity.MovementAjusteIngreso && kind != entity.MovementAjusteEgreso {
		return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, in.Kind)
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.InventoryMovement
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		if err := ensureCatalog(ctx, repos, tenantID, in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		reference := in.Reference
		if reference == "" {
			reference = string(kind)
		}
		m, err := ApplyMovement(ctx, repos, MovementInput{
			TenantID:          tenantID,
			ProductID:         in.ProductID,
			WarehouseID:       in.WarehouseID,
			Kind:              kind,
			Quantity:          in.Quantity,
			DocumentReference: reference,
			ReasonID:          in.ReasonID,
			UserID:            userID,
			RequireExisting:   kind == entity.MovementAjusteEgreso,
		})
		if err != nil {
			return WithProductName(ctx, repos.Products, tenantID, err)
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("product_id", mov.ProductID).
		Str("warehouse_id", mov.WarehouseID).
		Str("kind", string(mov.Kind)).
		Int("quantity", mov.Quantity).
		Int("stock_after", mov.StockAfter).
		Msg("ajuste de inventario aplicado")
	out := toMovementResponse(mov)
	return &out, nil
}

// SetMinQuantity configura el punto de reorden sin tocar la cantidad ni el kardex.
func (uc *UseCase) SetMinQuantity(ctx context.Context, tenantID string, in dto.SetMinQuantityRequest) (*dto.StockResponse, error) {
	if in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var balance *entity.StockBalance
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		if err := ensureCatalog(ctx, repos, tenantID, in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		key := entity.StockKey{TenantID: tenantID, ProductID: in.ProductID, WarehouseID: in.WarehouseID}
		b, err := repos.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if b == nil {
			b = &entity.StockBalance{TenantID: tenantID, ProductID: in.ProductID, WarehouseID: in.WarehouseID}
		}
		b.MinQuantity = in.MinQuantity
		if err := repos.Stock.Save(ctx, b); err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toStockResponse(balance, "", "")
	return &out, nil
}

// ensureCatalog verifica que producto y almacén existan en el tenant.
func ensureCatalog(ctx context.Context, repos repository.Repos, tenantID, productID, warehouseID string) error {
	if productID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	p, err := repos.Products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	w, err := repos.Warehouses.GetByID(ctx, tenantID, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, warehouseID)
	}
	return nil
}

func (uc *UseCase) toStockList(ctx context.Context, tenantID string, list []*entity.StockBalance) *dto.StockListResponse {
	products := map[string]string{}
	warehouses := map[string]string{}
	items := make([]dto.StockResponse, 0, len(list))
	for _, b := range list {
		pName, ok := products[b.ProductID]
		if !ok {
			if p, _ := uc.read.Products.GetByID(ctx, tenantID, b.ProductID); p != nil {
				pName = p.Name
			}
			products[b.ProductID] = pName
		}
		wName, ok := warehouses[b.WarehouseID]
		if !ok {
			if w, _ := uc.read.Warehouses.GetByID(ctx, tenantID, b.WarehouseID); w != nil {
				wName = w.Name
			}
			warehouses[b.WarehouseID] = wName
		}
		items = append(items, toStockResponse(b, pName, wName))
	}
	return &dto.StockListResponse{Items: items}
}

func toStockResponse(b *entity.StockBalance, productName, warehouseName string) dto.StockResponse {
	return dto.StockResponse{
		ProductID:     b.ProductID,
		ProductName:   productName,
		WarehouseID:   b.WarehouseID,
		WarehouseName: warehouseName,
		Quantity:      b.Quantity,
		MinQuantity:   b.MinQuantity,
		Low:           b.IsLow(),
		UpdatedAt:     b.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		WarehouseID:       m.WarehouseID,
		Kind:              string(m.Kind),
		Quantity:          m.Quantity,
		StockBefore:       m.StockBefore,
		StockAfter:        m.StockAfter,
		DocumentReference: m.DocumentReference,
		ReasonID:          m.ReasonID,
		UserID:            m.UserID,
		CreatedAt:         m.CreatedAt,
	}
}
