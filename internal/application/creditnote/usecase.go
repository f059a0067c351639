package creditnote

import (
	"context"
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

// UseCase devoluciones sobre ventas completadas.
type UseCase struct {
	tx     ports.TxRunner
	read   repository.Repos
	locker ports.Locker
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, read repository.Repos, locker ports.Locker, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, read: read, locker: locker, log: log.Component("credit_note")}
}

// Create emite y aplica la nota (NC-xxxxx): reingresa al almacén de la venta lo devuelto.
// Lo devuelto por detalle, sumando notas previas, nunca supera lo vendido.
func (uc *UseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	if in.SaleID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Serializa las notas de una misma venta para que el tope acumulado sea exacto.
	release, err := uc.locker.Obtain(ctx, ports.LockKey("sale-notes", in.SaleID))
	if err != nil {
		return nil, err
	}
	defer release()

	var note *entity.CreditNote
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		sale, err := repos.Sales.GetByID(ctx, tenantID, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.SaleID)
		}
		if sale.Status != entity.SaleCompletada {
			return fmt.Errorf("%w: solo se devuelven ventas completadas", domain.ErrInvalidState)
		}
		code, err := repository.NextCode(ctx, repos.Sequences, tenantID, entity.SeriesCreditNote)
		if err != nil {
			return err
		}
		now := time.Now()
		n := &entity.CreditNote{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Code:       code,
			SaleID:     sale.ID,
			Reason:     in.Reason,
			UserID:     userID,
			Status:     entity.CreditNoteAplicada,
			RefundedAt: &now,
			CreatedAt:  now,
		}
		requested := make(map[string]int, len(in.Items))
		subtotal := decimal.Zero
		for _, item := range in.Items {
			if item.Quantity <= 0 {
				return fmt.Errorf("%w: cantidad a devolver debe ser mayor a cero", domain.ErrInvalidInput)
			}
			line, err := saleLine(ctx, repos, tenantID, sale, item.SaleLineID)
			if err != nil {
				return err
			}
			if item.ProductID != "" && item.ProductID != line.ProductID {
				return fmt.Errorf("%w: producto %s no corresponde al detalle", domain.ErrMismatchedParent, item.ProductID)
			}
			returned, err := repos.CreditNotes.ReturnedQuantity(ctx, tenantID, line.ID)
			if err != nil {
				return err
			}
			requested[line.ID] += item.Quantity
			if returned+requested[line.ID] > line.Quantity {
				return fmt.Errorf("%w: %s vendido %d, devuelto %d, solicitado %d",
					domain.ErrExcessReturn, line.ProductName, line.Quantity, returned, requested[line.ID])
			}
			if _, err := inventory.ApplyMovement(ctx, repos, inventory.MovementInput{
				TenantID:          tenantID,
				ProductID:         line.ProductID,
				WarehouseID:       sale.WarehouseID,
				Kind:              entity.MovementEntrada,
				Quantity:          item.Quantity,
				DocumentReference: code,
				UserID:            userID,
			}); err != nil {
				return err
			}
			lineSubtotal := pricing.Round(line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			subtotal = subtotal.Add(lineSubtotal)
			n.Lines = append(n.Lines, entity.CreditNoteLine{
				ID:           uuid.New().String(),
				CreditNoteID: n.ID,
				SaleLineID:   line.ID,
				ProductID:    line.ProductID,
				Quantity:     item.Quantity,
				UnitPrice:    line.UnitPrice,
				Subtotal:     lineSubtotal,
			})
		}
		n.Subtotal, n.Tax, n.Total = pricing.Totals(subtotal)
		if err := repos.CreditNotes.Create(ctx, n); err != nil {
			return err
		}
		note = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("code", note.Code).
		Str("sale_id", note.SaleID).
		Str("total", note.Total.StringFixed(2)).
		Msg("nota de crédito aplicada")
	return toCreditNoteResponse(note), nil
}

// Get obtiene una nota de crédito.
func (uc *UseCase) Get(ctx context.Context, tenantID, id string) (*dto.CreditNoteResponse, error) {
	n, err := uc.read.CreditNotes.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return toCreditNoteResponse(n), nil
}

// ListBySale notas emitidas para una venta.
func (uc *UseCase) ListBySale(ctx context.Context, tenantID, saleID string) (*dto.CreditNoteListResponse, error) {
	list, err := uc.read.CreditNotes.ListBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CreditNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *toCreditNoteResponse(n))
	}
	return &dto.CreditNoteListResponse{Items: items}, nil
}

// saleLine exige que el detalle exista y pertenezca a la venta.
func saleLine(ctx context.Context, repos repository.Repos, tenantID string, sale *entity.Sale, lineID string) (*entity.SaleLine, error) {
	if l, ok := sale.Line(lineID); ok {
		return l, nil
	}
	other, err := repos.Sales.GetLineByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, fmt.Errorf("%w: detalle %s pertenece a la venta %s", domain.ErrMismatchedParent, lineID, other.SaleID)
	}
	return nil, fmt.Errorf("%w: detalle de venta %s", domain.ErrNotFound, lineID)
}

func toCreditNoteResponse(n *entity.CreditNote) *dto.CreditNoteResponse {
	lines := make([]dto.CreditNoteLineResponse, 0, len(n.Lines))
	for _, l := range n.Lines {
		lines = append(lines, dto.CreditNoteLineResponse{
			ID:         l.ID,
			SaleLineID: l.SaleLineID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   l.Subtotal,
		})
	}
	return &dto.CreditNoteResponse{
		ID:         n.ID,
		Code:       n.Code,
		SaleID:     n.SaleID,
		Reason:     n.Reason,
		UserID:     n.UserID,
		Subtotal:   n.Subtotal,
		Tax:        n.Tax,
		Total:      n.Total,
		Status:     string(n.Status),
		RefundedAt: n.RefundedAt,
		Lines:      lines,
		CreatedAt:  n.CreatedAt,
	}
}
