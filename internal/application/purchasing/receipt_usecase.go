package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domainpur "github.com/jhoicas/kardex-api/internal/domain/purchasing"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ReceiptUseCase registro, confirmación y anulación de recepciones de compra.
type ReceiptUseCase struct {
	tx     ports.TxRunner
	read   repository.Repos
	locker ports.Locker
	log    *logger.Logger
}

// NewReceiptUseCase construye el caso de uso. locker puede ser ports.NopLocker{}.
func NewReceiptUseCase(tx ports.TxRunner, read repository.Repos, locker ports.Locker, log *logger.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{tx: tx, read: read, locker: locker, log: log.Component("purchase_receipt")}
}

// Create registra lo recibido físicamente contra la orden. No mueve stock:
// incrementa quantityReceived en cada detalle y deja la recepción en PENDIENTE.
func (uc *ReceiptUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if in.OrderID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var receipt *entity.PurchaseReceipt
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		order, err := loadOrder(ctx, repos, tenantID, in.OrderID)
		if err != nil {
			return err
		}
		if !domainpur.Receivable(order.Status) {
			return fmt.Errorf("%w: la orden %s está en %s", domain.ErrInvalidState, order.Code, order.Status)
		}

		now := time.Now()
		r := &entity.PurchaseReceipt{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			OrderID:      order.ID,
			WarehouseID:  order.DestinationWarehouseID,
			ReceivedByID: userID,
			GuideNumber:  in.GuideNumber,
			Notes:        in.Notes,
			Status:       entity.ReceiptPendiente,
			ReceivedAt:   now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, item := range in.Items {
			line, err := orderLine(ctx, repos, tenantID, order, item.OrderLineID)
			if err != nil {
				return err
			}
			if err := validateReceiptItem(item); err != nil {
				return err
			}
			if item.QuantityReceived > line.Remaining() {
				return fmt.Errorf("%w: detalle %s pendiente %d, recibido %d",
					domain.ErrOverReceipt, line.ID, line.Remaining(), item.QuantityReceived)
			}
			line.QuantityReceived += item.QuantityReceived
			if err := repos.PurchaseOrders.UpdateLine(ctx, line); err != nil {
				return err
			}
			r.Lines = append(r.Lines, entity.ReceiptLine{
				ID:               uuid.New().String(),
				ReceiptID:        r.ID,
				OrderLineID:      line.ID,
				ProductID:        line.ProductID,
				QuantityReceived: item.QuantityReceived,
				QuantityAccepted: item.QuantityAccepted,
				QuantityRejected: item.QuantityRejected,
				RejectionReason:  item.RejectionReason,
			})
		}

		code, err := repository.NextCode(ctx, repos.Sequences, tenantID, entity.SeriesReceipt)
		if err != nil {
			return err
		}
		r.Code = code
		if err := repos.Receipts.Create(ctx, r); err != nil {
			return err
		}
		if order.Status == entity.PurchaseOrderConfirmada {
			order.Status = entity.PurchaseOrderEnRecepcion
			order.UpdatedAt = now
			if err := repos.PurchaseOrders.Update(ctx, order); err != nil {
				return err
			}
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("code", receipt.Code).Str("order_id", receipt.OrderID).Msg("recepción registrada")
	return toReceiptResponse(receipt), nil
}

// Confirm aplica al kardex (ENTRADA) lo aceptado de cada detalle y recalcula el estado de la orden
// con la misma regla derivada que usa ChangeStatus. Solo desde PENDIENTE.
func (uc *ReceiptUseCase) Confirm(ctx context.Context, tenantID, userID, id string) (*dto.ReceiptResponse, error) {
	release, err := uc.locker.Obtain(ctx, ports.LockKey("receipt", id))
	if err != nil {
		return nil, err
	}
	defer release()

	var receipt *entity.PurchaseReceipt
	var orderStatus entity.PurchaseOrderStatus
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		r, err := loadReceipt(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if r.Status != entity.ReceiptPendiente {
			return fmt.Errorf("%w: la recepción %s está en %s", domain.ErrInvalidState, r.Code, r.Status)
		}
		order, err := loadOrder(ctx, repos, tenantID, r.OrderID)
		if err != nil {
			return err
		}
		if !confirmable(order.Status) {
			return fmt.Errorf("%w: la orden %s está en %s", domain.ErrInvalidState, order.Code, order.Status)
		}

		for _, l := range r.Lines {
			if l.QuantityAccepted <= 0 {
				continue
			}
			_, err := inventory.ApplyMovement(ctx, repos, inventory.MovementInput{
				TenantID:          tenantID,
				ProductID:         l.ProductID,
				WarehouseID:       r.WarehouseID,
				Kind:              entity.MovementEntrada,
				Quantity:          l.QuantityAccepted,
				DocumentReference: r.Code,
				UserID:            userID,
			})
			if err != nil {
				return err
			}
		}

		now := time.Now()
		if derived := domainpur.DeriveStatus(order.Lines, order.Status); derived != order.Status {
			order.Status = derived
			order.UpdatedAt = now
			if err := repos.PurchaseOrders.Update(ctx, order); err != nil {
				return err
			}
		}
		r.IsFullReception = domainpur.FullyReceived(order.Lines)
		r.Status = entity.ReceiptConfirmada
		r.UpdatedAt = now
		if err := repos.Receipts.Update(ctx, r); err != nil {
			return err
		}
		receipt = r
		orderStatus = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("code", receipt.Code).
		Str("order_status", string(orderStatus)).
		Bool("full_reception", receipt.IsFullReception).
		Msg("recepción confirmada")
	return toReceiptResponse(receipt), nil
}

// Cancel anula una recepción PENDIENTE, revierte lo que había sumado a quantityReceived
// y recalcula el estado de la orden con las cantidades que quedan.
func (uc *ReceiptUseCase) Cancel(ctx context.Context, tenantID, id string) (*dto.ReceiptResponse, error) {
	release, err := uc.locker.Obtain(ctx, ports.LockKey("receipt", id))
	if err != nil {
		return nil, err
	}
	defer release()

	var receipt *entity.PurchaseReceipt
	var orderStatus entity.PurchaseOrderStatus
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		r, err := loadReceipt(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if r.Status != entity.ReceiptPendiente {
			return fmt.Errorf("%w: la recepción %s está en %s", domain.ErrInvalidState, r.Code, r.Status)
		}
		order, err := loadOrder(ctx, repos, tenantID, r.OrderID)
		if err != nil {
			return err
		}
		for _, rl := range r.Lines {
			line, ok := order.Line(rl.OrderLineID)
			if !ok {
				continue
			}
			line.QuantityReceived -= rl.QuantityReceived
			if line.QuantityReceived < 0 {
				line.QuantityReceived = 0
			}
			if err := repos.PurchaseOrders.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		now := time.Now()
		if next := domainpur.AfterRelease(order.Lines, order.Status); next != order.Status {
			order.Status = next
			order.UpdatedAt = now
			if err := repos.PurchaseOrders.Update(ctx, order); err != nil {
				return err
			}
		}
		if !domainpur.FullyReceived(order.Lines) {
			if err := clearFullReception(ctx, repos, tenantID, order.ID, now); err != nil {
				return err
			}
		}

		r.Status = entity.ReceiptCancelada
		r.UpdatedAt = now
		if err := repos.Receipts.Update(ctx, r); err != nil {
			return err
		}
		receipt = r
		orderStatus = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("code", receipt.Code).
		Str("order_status", string(orderStatus)).
		Msg("recepción anulada")
	return toReceiptResponse(receipt), nil
}

// clearFullReception desmarca las recepciones confirmadas que dieron la orden por completa
// cuando la cantidad que lo justificaba se liberó.
func clearFullReception(ctx context.Context, repos repository.Repos, tenantID, orderID string, now time.Time) error {
	list, err := repos.Receipts.ListByOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	for _, other := range list {
		if other.Status != entity.ReceiptConfirmada || !other.IsFullReception {
			continue
		}
		other.IsFullReception = false
		other.UpdatedAt = now
		if err := repos.Receipts.Update(ctx, other); err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene una recepción.
func (uc *ReceiptUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ReceiptResponse, error) {
	r, err := uc.read.Receipts.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toReceiptResponse(r), nil
}

// ListByOrder recepciones de una orden.
func (uc *ReceiptUseCase) ListByOrder(ctx context.Context, tenantID, orderID string) (*dto.ReceiptListResponse, error) {
	list, err := uc.read.Receipts.ListByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReceiptResponse(r))
	}
	return &dto.ReceiptListResponse{Items: items}, nil
}

// List recepciones filtrando opcionalmente por orden y estado, paginadas.
func (uc *ReceiptUseCase) List(ctx context.Context, tenantID, orderID, status string, page dto.PageRequest) (*dto.ReceiptListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.read.Receipts.List(ctx, tenantID, orderID, entity.ReceiptStatus(status), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReceiptResponse(r))
	}
	return &dto.ReceiptListResponse{
		Items: items,
		Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// confirmable una orden COMPLETADA aún admite confirmar recepciones registradas antes de completarse.
func confirmable(status entity.PurchaseOrderStatus) bool {
	switch status {
	case entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderParcial, entity.PurchaseOrderCompletada:
		return true
	}
	return false
}

func validateReceiptItem(item dto.ReceiptItemRequest) error {
	if item.QuantityReceived <= 0 || item.QuantityAccepted < 0 || item.QuantityRejected < 0 {
		return domain.ErrInvalidInput
	}
	if item.QuantityAccepted+item.QuantityRejected != item.QuantityReceived {
		return fmt.Errorf("%w: aceptado (%d) + rechazado (%d) debe ser igual a recibido (%d)",
			domain.ErrInvalidInput, item.QuantityAccepted, item.QuantityRejected, item.QuantityReceived)
	}
	return nil
}

// orderLine devuelve el detalle de la orden (puntero dentro de order.Lines).
// Si el ID pertenece a otra orden del tenant es ErrMismatchedParent.
func orderLine(ctx context.Context, repos repository.Repos, tenantID string, order *entity.PurchaseOrder, lineID string) (*entity.PurchaseOrderLine, error) {
	if line, ok := order.Line(lineID); ok {
		return line, nil
	}
	other, err := repos.PurchaseOrders.GetLineByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, fmt.Errorf("%w: el detalle %s no pertenece a la orden %s", domain.ErrMismatchedParent, lineID, order.Code)
	}
	return nil, fmt.Errorf("%w: detalle de orden %s", domain.ErrNotFound, lineID)
}

func loadReceipt(ctx context.Context, repos repository.Repos, tenantID, id string) (*entity.PurchaseReceipt, error) {
	r, err := repos.Receipts.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recepción %s", domain.ErrNotFound, id)
	}
	return r, nil
}

func toReceiptResponse(r *entity.PurchaseReceipt) *dto.ReceiptResponse {
	lines := make([]dto.ReceiptLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ReceiptLineResponse{
			ID:               l.ID,
			OrderLineID:      l.OrderLineID,
			ProductID:        l.ProductID,
			QuantityReceived: l.QuantityReceived,
			QuantityAccepted: l.QuantityAccepted,
			QuantityRejected: l.QuantityRejected,
			RejectionReason:  l.RejectionReason,
		})
	}
	return &dto.ReceiptResponse{
		ID:              r.ID,
		Code:            r.Code,
		OrderID:         r.OrderID,
		WarehouseID:     r.WarehouseID,
		ReceivedByID:    r.ReceivedByID,
		GuideNumber:     r.GuideNumber,
		Notes:           r.Notes,
		IsFullReception: r.IsFullReception,
		Status:          string(r.Status),
		Lines:           lines,
		ReceivedAt:      r.ReceivedAt,
	}
}
