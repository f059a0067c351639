package sales

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
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// CashSessionUseCase apertura y cierre de turnos de caja.
type CashSessionUseCase struct {
	tx   ports.TxRunner
	read repository.Repos
	log  *logger.Logger
}

// NewCashSessionUseCase construye el caso de uso.
func NewCashSessionUseCase(tx ports.TxRunner, read repository.Repos, log *logger.Logger) *CashSessionUseCase {
	return &CashSessionUseCase{tx: tx, read: read, log: log.Component("cash_session")}
}

// Open abre una sesión; un usuario solo puede tener una ABIERTA.
func (uc *CashSessionUseCase) Open(ctx context.Context, tenantID, userID string, in dto.OpenCashSessionRequest) (*dto.CashSessionResponse, error) {
	if in.RegisterID == "" || in.OpeningAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var session *entity.CashSession
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		open, err := repos.CashSessions.GetOpenByUser(ctx, tenantID, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return fmt.Errorf("%w: el usuario ya tiene una sesión de caja abierta", domain.ErrConflict)
		}
		cs := &entity.CashSession{
			ID:            uuid.New().String(),
			TenantID:      tenantID,
			RegisterID:    in.RegisterID,
			UserID:        userID,
			OpeningAmount: pricing.Round(in.OpeningAmount),
			TotalSales:    decimal.Zero,
			Status:        entity.CashSessionAbierta,
			Notes:         in.Notes,
			OpenedAt:      time.Now(),
		}
		if err := repos.CashSessions.Create(ctx, cs); err != nil {
			return err
		}
		session = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCashSessionResponse(session, nil), nil
}

// RegisterMovement registra un ingreso o egreso manual; solo con la sesión ABIERTA.
func (uc *CashSessionUseCase) RegisterMovement(ctx context.Context, tenantID, userID, id string, in dto.CashMovementRequest) (*dto.CashSessionResponse, error) {
	kind := entity.CashMovementKind(in.Kind)
	if kind != entity.CashMovementIngreso && kind != entity.CashMovementEgreso {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Kind)
	}
	amount := pricing.Round(in.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	var (
		session   *entity.CashSession
		movements []*entity.CashMovement
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		cs, err := repos.CashSessions.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if cs == nil {
			return fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, id)
		}
		if cs.Status != entity.CashSessionAbierta {
			return fmt.Errorf("%w: la sesión de caja no está abierta", domain.ErrInvalidState)
		}
		m := &entity.CashMovement{
			ID:          uuid.New().String(),
			TenantID:    tenantID,
			SessionID:   cs.ID,
			Kind:        kind,
			Amount:      amount,
			Reason:      in.Reason,
			Description: in.Description,
			UserID:      userID,
			CreatedAt:   time.Now(),
		}
		if err := repos.CashMovements.Create(ctx, m); err != nil {
			return err
		}
		if movements, err = repos.CashMovements.ListBySession(ctx, tenantID, cs.ID); err != nil {
			return err
		}
		session = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("session_id", session.ID).
		Str("kind", string(kind)).
		Str("amount", amount.StringFixed(2)).
		Msg("movimiento de caja registrado")
	return toCashSessionResponse(session, movements), nil
}

// Close cierra la sesión: diferencia = monto de cierre − (apertura + ventas + ingresos − egresos).
func (uc *CashSessionUseCase) Close(ctx context.Context, tenantID, id string, in dto.CloseCashSessionRequest) (*dto.CashSessionResponse, error) {
	if in.ClosingAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var (
		session   *entity.CashSession
		movements []*entity.CashMovement
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		cs, err := repos.CashSessions.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if cs == nil {
			return fmt.Errorf("%w: sesión de caja %s", domain.ErrNotFound, id)
		}
		if cs.Status != entity.CashSessionAbierta {
			return fmt.Errorf("%w: la sesión de caja ya está cerrada", domain.ErrInvalidState)
		}
		if movements, err = repos.CashMovements.ListBySession(ctx, tenantID, cs.ID); err != nil {
			return err
		}
		now := time.Now()
		closing := pricing.Round(in.ClosingAmount)
		diff := closing.Sub(cs.Expected(movements))
		cs.ClosingAmount = &closing
		cs.Difference = &diff
		cs.Status = entity.CashSessionCerrada
		cs.ClosedAt = &now
		if in.Notes != "" {
			cs.Notes = in.Notes
		}
		if err := repos.CashSessions.Update(ctx, cs); err != nil {
			return err
		}
		session = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("session_id", session.ID).
		Str("total_sales", session.TotalSales.StringFixed(2)).
		Str("difference", session.Difference.StringFixed(2)).
		Msg("sesión de caja cerrada")
	return toCashSessionResponse(session, movements), nil
}

// Get obtiene una sesión de caja.
func (uc *CashSessionUseCase) Get(ctx context.Context, tenantID, id string) (*dto.CashSessionResponse, error) {
	cs, err := uc.read.CashSessions.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.read.CashMovements.ListBySession(ctx, tenantID, cs.ID)
	if err != nil {
		return nil, err
	}
	return toCashSessionResponse(cs, movements), nil
}

// List sesiones filtradas por estado y caja, paginadas.
func (uc *CashSessionUseCase) List(ctx context.Context, tenantID, status, registerID string, page dto.PageRequest) (*dto.CashSessionListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.read.CashSessions.List(ctx, tenantID, entity.CashSessionStatus(status), registerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashSessionResponse, 0, len(list))
	for _, cs := range list {
		movements, err := uc.read.CashMovements.ListBySession(ctx, tenantID, cs.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toCashSessionResponse(cs, movements))
	}
	return &dto.CashSessionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toCashSessionResponse(cs *entity.CashSession, movements []*entity.CashMovement) *dto.CashSessionResponse {
	income, expense := entity.CashTotals(movements)
	out := &dto.CashSessionResponse{
		ID:            cs.ID,
		RegisterID:    cs.RegisterID,
		UserID:        cs.UserID,
		OpeningAmount: cs.OpeningAmount,
		TotalSales:    cs.TotalSales,
		TotalIncome:   income,
		TotalExpense:  expense,
		Expected:      cs.Expected(movements),
		ClosingAmount: cs.ClosingAmount,
		Difference:    cs.Difference,
		Status:        string(cs.Status),
		Notes:         cs.Notes,
		Movements:     make([]dto.CashMovementResponse, 0, len(movements)),
		OpenedAt:      cs.OpenedAt,
		ClosedAt:      cs.ClosedAt,
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, dto.CashMovementResponse{
			ID:          m.ID,
			Kind:        string(m.Kind),
			Amount:      m.Amount,
			Reason:      m.Reason,
			Description: m.Description,
			UserID:      m.UserID,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
