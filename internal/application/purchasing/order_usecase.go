package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/pricing"
	domainpur "github.com/jhoicas/kardex-api/internal/domain/purchasing"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// OrderUseCase ciclo de vida de la orden de compra.
type OrderUseCase struct {
	tx   ports.TxRunner
	read repository.Repos
	log  *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(tx ports.TxRunner, read repository.Repos, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{tx: tx, read: read, log: log.Component("purchase_order")}
}

// Create registra la orden en PENDIENTE con código OC-xxxxx y totales con IGV.
func (uc *OrderUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		if err := ensureWarehouse(ctx, repos, tenantID, in.WarehouseID); err != nil {
			return err
		}
		now := time.Now()
		o := &entity.PurchaseOrder{
			ID:                     uuid.New().String(),
			TenantID:               tenantID,
			SupplierID:             in.SupplierID,
			DestinationWarehouseID: in.WarehouseID,
			UserID:                 userID,
			ExpectedDate:           in.ExpectedDate,
			PaymentTerms:           in.PaymentTerms,
			Notes:                  in.Notes,
			Status:                 entity.PurchaseOrderPendiente,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := buildLines(ctx, repos, o, in.Lines); err != nil {
			return err
		}
		code, err := repository.NextCode(ctx, repos.Sequences, tenantID, entity.SeriesPurchaseOrder)
		if err != nil {
			return err
		}
		o.Code = code
		if err := repos.PurchaseOrders.Create(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("code", order.Code).Str("total", order.Total.StringFixed(2)).Msg("orden de compra creada")
	return toOrderResponse(order), nil
}

// Get obtiene la orden con sus detalles.
func (uc *OrderUseCase) Get(ctx context.Context, tenantID, id string) (*dto.PurchaseOrderResponse, error) {
	o, err := uc.read.PurchaseOrders.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o), nil
}

// List lista órdenes filtrando opcionalmente por estado.
func (uc *OrderUseCase) List(ctx context.Context, tenantID, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.read.PurchaseOrders.List(ctx, tenantID, entity.PurchaseOrderStatus(status), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update reemplaza cabecera y detalles; solo en PENDIENTE.
func (uc *OrderUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		o, err := loadOrder(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if o.Status != entity.PurchaseOrderPendiente {
			return fmt.Errorf("%w: la orden %s está en %s", domain.ErrInvalidState, o.Code, o.Status)
		}
		if err := ensureWarehouse(ctx, repos, tenantID, in.WarehouseID); err != nil {
			return err
		}
		o.SupplierID = in.SupplierID
		o.DestinationWarehouseID = in.WarehouseID
		o.ExpectedDate = in.ExpectedDate
		o.PaymentTerms = in.PaymentTerms
		o.Notes = in.Notes
		o.UpdatedAt = time.Now()
		if err := buildLines(ctx, repos, o, in.Lines); err != nil {
			return err
		}
		if err := repos.PurchaseOrders.ReplaceLines(ctx, o); err != nil {
			return err
		}
		if err := repos.PurchaseOrders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ChangeStatus aplica una transición explícita según la tabla.
// PARCIAL/COMPLETADA solo se aceptan si coinciden con el estado derivado de las cantidades recibidas.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, tenantID, id, status string) (*dto.PurchaseOrderResponse, error) {
	target := entity.PurchaseOrderStatus(status)
	var order *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		o, err := loadOrder(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := domainpur.ValidateTransition(o, target); err != nil {
			return err
		}
		o.Status = target
		o.UpdatedAt = time.Now()
		if err := repos.PurchaseOrders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("code", order.Code).Str("status", string(order.Status)).Msg("estado de orden de compra actualizado")
	return toOrderResponse(order), nil
}

// Cancel anulación lógica (CANCELADA); rechazada si ya hubo recepciones (PARCIAL) o la orden terminó.
func (uc *OrderUseCase) Cancel(ctx context.Context, tenantID, id string) error {
	return uc.tx.Run(ctx, func(repos repository.Repos) error {
		o, err := loadOrder(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if !domainpur.Cancellable(o.Status) {
			return fmt.Errorf("%w: no se puede cancelar una orden en %s", domain.ErrInvalidState, o.Status)
		}
		o.Status = entity.PurchaseOrderCancelada
		o.UpdatedAt = time.Now()
		return repos.PurchaseOrders.Update(ctx, o)
	})
}

func loadOrder(ctx context.Context, repos repository.Repos, tenantID, id string) (*entity.PurchaseOrder, error) {
	o, err := repos.PurchaseOrders.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return o, nil
}

func ensureWarehouse(ctx context.Context, repos repository.Repos, tenantID, id string) error {
	w, err := repos.Warehouses.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, id)
	}
	return nil
}

// buildLines arma los detalles y recalcula totales: subtotal = Σ(precio × cantidad − descuento),
// IGV = 18% del subtotal, total = subtotal + IGV.
func buildLines(ctx context.Context, repos repository.Repos, o *entity.PurchaseOrder, in []dto.PurchaseOrderLineRequest) error {
	if len(in) == 0 {
		return fmt.Errorf("%w: la orden requiere al menos un detalle", domain.ErrInvalidInput)
	}
	lines := make([]entity.PurchaseOrderLine, 0, len(in))
	subtotal, discount := decimal.Zero, decimal.Zero
	for _, l := range in {
		if l.ProductID == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() || l.Discount.IsNegative() {
			return domain.ErrInvalidInput
		}
		p, err := repos.Products.GetByID(ctx, o.TenantID, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		lineSub := pricing.LineSubtotal(l.UnitPrice, l.Quantity, l.Discount)
		if lineSub.IsNegative() {
			return fmt.Errorf("%w: el descuento supera el importe del detalle", domain.ErrInvalidInput)
		}
		lineTax := pricing.Tax(lineSub)
		lines = append(lines, entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			OrderID:         o.ID,
			ProductID:       l.ProductID,
			QuantityOrdered: l.Quantity,
			UnitPrice:       l.UnitPrice,
			Discount:        l.Discount,
			Subtotal:        lineSub,
			Tax:             lineTax,
			Total:           lineSub.Add(lineTax),
			Notes:           l.Notes,
		})
		subtotal = subtotal.Add(lineSub)
		discount = discount.Add(l.Discount)
	}
	o.Lines = lines
	o.Discount = pricing.Round(discount)
	o.Subtotal, o.Tax, o.Total = pricing.Totals(subtotal)
	return nil
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			QuantityOrdered:  l.QuantityOrdered,
			QuantityReceived: l.QuantityReceived,
			UnitPrice:        l.UnitPrice,
			Discount:         l.Discount,
			Subtotal:         l.Subtotal,
			Tax:              l.Tax,
			Total:            l.Total,
			Notes:            l.Notes,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:           o.ID,
		Code:         o.Code,
		SupplierID:   o.SupplierID,
		WarehouseID:  o.DestinationWarehouseID,
		UserID:       o.UserID,
		ExpectedDate: o.ExpectedDate,
		PaymentTerms: o.PaymentTerms,
		Notes:        o.Notes,
		Subtotal:     o.Subtotal,
		Discount:     o.Discount,
		Tax:          o.Tax,
		Total:        o.Total,
		Status:       string(o.Status),
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
