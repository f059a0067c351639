package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/pricing"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// SaleUseCase registro, cobro y anulación de ventas.
type SaleUseCase struct {
	tx     ports.TxRunner
	read   repository.Repos
	locker ports.Locker
	log    *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx ports.TxRunner, read repository.Repos, locker ports.Locker, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{tx: tx, read: read, locker: locker, log: log.Component("sale")}
}

// Create registra la venta en PENDIENTE (VEN-xxxxx) con el nombre del producto congelado en cada detalle.
// No toca stock: el descuento ocurre en ConfirmPayment.
func (uc *SaleUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		w, err := repos.Warehouses.GetByID(ctx, tenantID, in.WarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, in.WarehouseID)
		}
		if in.CashSessionID != "" {
			cs, err := repos.CashSessions.GetByID(ctx, tenantID, in.CashSessionID)
			if err != nil {
				return err
			}
			if cs == nil {
				return fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, in.CashSessionID)
			}
		}

		now := time.Now()
		s := &entity.Sale{
			ID:            uuid.New().String(),
			TenantID:      tenantID,
			CashSessionID: in.CashSessionID,
			CustomerID:    in.CustomerID,
			WarehouseID:   in.WarehouseID,
			UserID:        userID,
			Status:        entity.SalePendiente,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		subtotal, discount := decimal.Zero, decimal.Zero
		for _, item := range in.Items {
			if item.ProductID == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
				return domain.ErrInvalidInput
			}
			p, err := repos.Products.GetByID(ctx, tenantID, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
			lineSub := pricing.LineSubtotal(item.UnitPrice, item.Quantity, item.Discount)
			if lineSub.IsNegative() {
				return fmt.Errorf("%w: el descuento supera el importe del detalle", domain.ErrInvalidInput)
			}
			s.Lines = append(s.Lines, entity.SaleLine{
				ID:          uuid.New().String(),
				SaleID:      s.ID,
				ProductID:   item.ProductID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    item.Discount,
				Subtotal:    lineSub,
			})
			subtotal = subtotal.Add(lineSub)
			discount = discount.Add(item.Discount)
		}
		s.Discount = pricing.Round(discount)
		s.Subtotal, s.Tax, s.Total = pricing.Totals(subtotal)

		code, err := repository.NextCode(ctx, repos.Sequences, tenantID, entity.SeriesSale)
		if err != nil {
			return err
		}
		s.Code = code
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ConfirmPayment cobra una venta PENDIENTE: guarda pagos en orden, descuenta el stock de cada detalle
// (SALIDA con código de venta), marca COMPLETADA y suma el total a la sesión de caja si está abierta.
// Si un detalle no tiene registro de stock es ErrMissingStockRecord; si no alcanza, *StockError
// y la transacción revierte los detalles ya descontados.
func (uc *SaleUseCase) ConfirmPayment(ctx context.Context, tenantID, userID, id string, in dto.ConfirmPaymentRequest) (*dto.SaleResponse, error) {
	for _, p := range in.Payments {
		if p.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.AmountReceived.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	release, err := uc.locker.Obtain(ctx, ports.LockKey("sale", id))
	if err != nil {
		return nil, err
	}
	defer release()

	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		s, err := loadSale(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if s.Status != entity.SalePendiente {
			return fmt.Errorf("%w: la venta %s está en %s", domain.ErrInvalidState, s.Code, s.Status)
		}

		paid := decimal.Zero
		for i, p := range in.Payments {
			payment := entity.Payment{
				ID:              uuid.New().String(),
				SaleID:          s.ID,
				PaymentMethodID: p.PaymentMethodID,
				Amount:          p.Amount,
				Reference:       p.Reference,
				Order:           i + 1,
			}
			if err := repos.Sales.CreatePayment(ctx, &payment); err != nil {
				return err
			}
			s.Payments = append(s.Payments, payment)
			paid = paid.Add(p.Amount)
		}

		for _, l := range s.Lines {
			_, err := inventory.ApplyMovement(ctx, repos, inventory.MovementInput{
				TenantID:          tenantID,
				ProductID:         l.ProductID,
				WarehouseID:       s.WarehouseID,
				Kind:              entity.MovementSalida,
				Quantity:          l.Quantity,
				DocumentReference: s.Code,
				UserID:            userID,
				RequireExisting:   true,
			})
			if err != nil {
				var se *domain.StockError
				if errors.As(err, &se) {
					se.ProductName = l.ProductName
				}
				return err
			}
		}

		now := time.Now()
		received := in.AmountReceived
		if received.IsZero() {
			received = paid
		}
		s.Status = entity.SaleCompletada
		s.PaidAt = &now
		s.AmountReceived = received
		s.Change = received.Sub(s.Total)
		s.UpdatedAt = now
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}

		if s.CashSessionID != "" {
			cs, err := repos.CashSessions.GetByID(ctx, tenantID, s.CashSessionID)
			if err != nil {
				return err
			}
			if cs != nil && cs.Status == entity.CashSessionAbierta {
				cs.TotalSales = cs.TotalSales.Add(s.Total)
				if err := repos.CashSessions.Update(ctx, cs); err != nil {
					return err
				}
			}
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("code", sale.Code).
		Str("total", sale.Total.StringFixed(2)).
		Int("lines", len(sale.Lines)).
		Msg("venta cobrada")
	return toSaleResponse(sale), nil
}

// Cancel anula una venta PENDIENTE. COMPLETADA y CANCELADA son terminales.
func (uc *SaleUseCase) Cancel(ctx context.Context, tenantID, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		s, err := loadSale(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		switch s.Status {
		case entity.SaleCompletada:
			return fmt.Errorf("%w: una venta completada solo se revierte con nota de crédito", domain.ErrInvalidState)
		case entity.SaleCancelada:
			return fmt.Errorf("%w: la venta %s ya está cancelada", domain.ErrInvalidState, s.Code)
		}
		s.Status = entity.SaleCancelada
		s.UpdatedAt = time.Now()
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Get obtiene la venta con detalles y pagos.
func (uc *SaleUseCase) Get(ctx context.Context, tenantID, id string) (*dto.SaleResponse, error) {
	s, err := uc.read.Sales.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(s), nil
}

// List cabeceras de ventas filtradas por estado, cliente y fecha de inicio (inicio del día, hora local).
func (uc *SaleUseCase) List(ctx context.Context, tenantID string, q dto.SaleListQuery, page dto.PageRequest) (*dto.SaleListResponse, error) {
	filter := repository.SaleFilter{Status: entity.SaleStatus(q.Status), CustomerID: q.CustomerID}
	if q.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, q.From, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q, se espera AAAA-MM-DD", domain.ErrInvalidInput, q.From)
		}
		filter.From = from
	}
	page.DefaultPage()
	list, total, err := uc.read.Sales.List(ctx, tenantID, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func loadSale(ctx context.Context, repos repository.Repos, tenantID, id string) (*entity.Sale, error) {
	s, err := repos.Sales.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return s, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			Subtotal:    l.Subtotal,
		})
	}
	payments := make([]dto.PaymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, dto.PaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			Reference:       p.Reference,
			Order:           p.Order,
		})
	}
	return &dto.SaleResponse{
		ID:             s.ID,
		Code:           s.Code,
		CashSessionID:  s.CashSessionID,
		CustomerID:     s.CustomerID,
		WarehouseID:    s.WarehouseID,
		UserID:         s.UserID,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Tax:            s.Tax,
		Total:          s.Total,
		AmountReceived: s.AmountReceived,
		Change:         s.Change,
		Status:         string(s.Status),
		PaidAt:         s.PaidAt,
		Notes:          s.Notes,
		Lines:          lines,
		Payments:       payments,
		CreatedAt:      s.CreatedAt,
	}
}
