package transfer

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
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// UseCase transferencias de mercadería entre almacenes del mismo tenant.
type UseCase struct {
	tx     ports.TxRunner
	read   repository.Repos
	locker ports.Locker
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, read repository.Repos, locker ports.Locker, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, read: read, locker: locker, log: log.Component("transfer")}
}

// Create registra la transferencia en PENDIENTE (TRF-xxxxx). Origen y destino deben diferir.
func (uc *UseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return nil, fmt.Errorf("%w: el almacén de origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	var transfer *entity.Transfer
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		for _, wid := range []string{in.SourceWarehouseID, in.DestinationWarehouseID} {
			w, err := repos.Warehouses.GetByID(ctx, tenantID, wid)
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, wid)
			}
		}
		now := time.Now()
		t := &entity.Transfer{
			ID:                     uuid.New().String(),
			TenantID:               tenantID,
			SourceWarehouseID:      in.SourceWarehouseID,
			DestinationWarehouseID: in.DestinationWarehouseID,
			Reason:                 in.Reason,
			Notes:                  in.Notes,
			RequestedByID:          userID,
			Status:                 entity.TransferPendiente,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		for _, item := range in.Items {
			if item.ProductID == "" || item.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			p, err := repos.Products.GetByID(ctx, tenantID, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
			t.Lines = append(t.Lines, entity.TransferLine{
				ID:         uuid.New().String(),
				TransferID: t.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
			})
		}
		code, err := repository.NextCode(ctx, repos.Sequences, tenantID, entity.SeriesTransfer)
		if err != nil {
			return err
		}
		t.Code = code
		if err := repos.Transfers.Create(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(transfer), nil
}

// Approve mueve el stock: por cada detalle SALIDA en origen y luego ENTRADA en destino
// (creando el saldo destino en 0 si no existe), ambos con el código de la transferencia.
// Si algún detalle no alcanza se revierte toda la aprobación y el error nombra el producto.
func (uc *UseCase) Approve(ctx context.Context, tenantID, userID, id string) (*dto.TransferResponse, error) {
	release, err := uc.locker.Obtain(ctx, ports.LockKey("transfer", id))
	if err != nil {
		return nil, err
	}
	defer release()

	var transfer *entity.Transfer
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		t, err := loadTransfer(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferPendiente {
			return fmt.Errorf("%w: la transferencia %s está en %s", domain.ErrInvalidState, t.Code, t.Status)
		}
		for _, l := range t.Lines {
			_, err := inventory.ApplyMovement(ctx, repos, inventory.MovementInput{
				TenantID:          tenantID,
				ProductID:         l.ProductID,
				WarehouseID:       t.SourceWarehouseID,
				Kind:              entity.MovementSalida,
				Quantity:          l.Quantity,
				DocumentReference: t.Code,
				UserID:            userID,
			})
			if err != nil {
				return inventory.WithProductName(ctx, repos.Products, tenantID, err)
			}
			_, err = inventory.ApplyMovement(ctx, repos, inventory.MovementInput{
				TenantID:          tenantID,
				ProductID:         l.ProductID,
				WarehouseID:       t.DestinationWarehouseID,
				Kind:              entity.MovementEntrada,
				Quantity:          l.Quantity,
				DocumentReference: t.Code,
				UserID:            userID,
			})
			if err != nil {
				return err
			}
		}
		now := time.Now()
		t.Status = entity.TransferAprobada
		t.ApprovedByID = userID
		t.ApprovedAt = &now
		t.UpdatedAt = now
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("code", transfer.Code).
		Str("from", transfer.SourceWarehouseID).
		Str("to", transfer.DestinationWarehouseID).
		Msg("transferencia aprobada")
	return toTransferResponse(transfer), nil
}

// Cancel solo desde PENDIENTE.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, id string) (*dto.TransferResponse, error) {
	var transfer *entity.Transfer
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		t, err := loadTransfer(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferPendiente {
			return fmt.Errorf("%w: solo se cancelan transferencias pendientes", domain.ErrInvalidState)
		}
		t.Status = entity.TransferCancelada
		t.UpdatedAt = time.Now()
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(transfer), nil
}

// Get obtiene una transferencia.
func (uc *UseCase) Get(ctx context.Context, tenantID, id string) (*dto.TransferResponse, error) {
	t, err := uc.read.Transfers.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(t), nil
}

func loadTransfer(ctx context.Context, repos repository.Repos, tenantID, id string) (*entity.Transfer, error) {
	t, err := repos.Transfers.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: transferencia %s", domain.ErrNotFound, id)
	}
	return t, nil
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransferLineResponse{ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return &dto.TransferResponse{
		ID:                     t.ID,
		Code:                   t.Code,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Reason:                 t.Reason,
		Notes:                  t.Notes,
		RequestedByID:          t.RequestedByID,
		ApprovedByID:           t.ApprovedByID,
		ApprovedAt:             t.ApprovedAt,
		Status:                 string(t.Status),
		Lines:                  lines,
		CreatedAt:              t.CreatedAt,
	}
}
