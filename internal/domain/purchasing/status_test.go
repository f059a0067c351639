package purchasing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/purchasing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseOrderStatus
		ok       bool
	}{
		{entity.PurchaseOrderPendiente, entity.PurchaseOrderEnviada, true},
		{entity.PurchaseOrderPendiente, entity.PurchaseOrderCancelada, true},
		{entity.PurchaseOrderPendiente, entity.PurchaseOrderCompletada, false},
		{entity.PurchaseOrderEnviada, entity.PurchaseOrderConfirmada, true},
		{entity.PurchaseOrderConfirmada, entity.PurchaseOrderEnRecepcion, true},
		{entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderParcial, true},
		{entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderCancelada, false},
		{entity.PurchaseOrderParcial, entity.PurchaseOrderCompletada, true},
		{entity.PurchaseOrderParcial, entity.PurchaseOrderEnRecepcion, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, purchasing.CanTransition(tc.from, tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestCanTransition_CompletadaEsTerminal(t *testing.T) {
	for _, to := range []entity.PurchaseOrderStatus{
		entity.PurchaseOrderPendiente, entity.PurchaseOrderEnviada, entity.PurchaseOrderConfirmada,
		entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderParcial, entity.PurchaseOrderCancelada,
	} {
		assert.False(t, purchasing.CanTransition(entity.PurchaseOrderCompletada, to))
		assert.False(t, purchasing.CanTransition(entity.PurchaseOrderCancelada, to))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado derivado de cantidades
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus(t *testing.T) {
	lines := []entity.PurchaseOrderLine{
		{QuantityOrdered: 10, QuantityReceived: 0},
		{QuantityOrdered: 5, QuantityReceived: 0},
	}
	assert.Equal(t, entity.PurchaseOrderEnRecepcion, purchasing.DeriveStatus(lines, entity.PurchaseOrderEnRecepcion))

	lines[0].QuantityReceived = 10
	assert.Equal(t, entity.PurchaseOrderParcial, purchasing.DeriveStatus(lines, entity.PurchaseOrderEnRecepcion))
	assert.False(t, purchasing.FullyReceived(lines))

	lines[1].QuantityReceived = 5
	assert.Equal(t, entity.PurchaseOrderCompletada, purchasing.DeriveStatus(lines, entity.PurchaseOrderParcial))
	assert.True(t, purchasing.FullyReceived(lines))
}

func TestAfterRelease(t *testing.T) {
	lines := []entity.PurchaseOrderLine{
		{QuantityOrdered: 10, QuantityReceived: 10},
		{QuantityOrdered: 5, QuantityReceived: 3},
	}
	assert.Equal(t, entity.PurchaseOrderParcial, purchasing.AfterRelease(lines, entity.PurchaseOrderCompletada))

	lines[0].QuantityReceived, lines[1].QuantityReceived = 0, 0
	assert.Equal(t, entity.PurchaseOrderEnRecepcion, purchasing.AfterRelease(lines, entity.PurchaseOrderParcial))
	assert.Equal(t, entity.PurchaseOrderEnRecepcion, purchasing.AfterRelease(lines, entity.PurchaseOrderCompletada))

	// fuera de recepción no se toca
	assert.Equal(t, entity.PurchaseOrderCancelada, purchasing.AfterRelease(lines, entity.PurchaseOrderCancelada))
}

func TestValidateTransition_DestinoDerivadoDebeCoincidir(t *testing.T) {
	order := &entity.PurchaseOrder{
		Status: entity.PurchaseOrderEnRecepcion,
		Lines:  []entity.PurchaseOrderLine{{QuantityOrdered: 4, QuantityReceived: 2}},
	}
	assert.NoError(t, purchasing.ValidateTransition(order, entity.PurchaseOrderParcial))
	assert.ErrorIs(t, purchasing.ValidateTransition(order, entity.PurchaseOrderCompletada), domain.ErrInvalidTransition)

	order.Status = entity.PurchaseOrderPendiente
	assert.ErrorIs(t, purchasing.ValidateTransition(order, entity.PurchaseOrderCompletada), domain.ErrInvalidTransition)
}

func TestCancellable(t *testing.T) {
	assert.True(t, purchasing.Cancellable(entity.PurchaseOrderPendiente))
	assert.True(t, purchasing.Cancellable(entity.PurchaseOrderConfirmada))
	assert.False(t, purchasing.Cancellable(entity.PurchaseOrderParcial))
	assert.False(t, purchasing.Cancellable(entity.PurchaseOrderCompletada))
}
