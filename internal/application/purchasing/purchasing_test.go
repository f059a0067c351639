package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/application/purchasing"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantID = "tenant-1"
	userID   = "user-1"
	whID     = "wh-1"
	prodA    = "prod-a"
	prodB    = "prod-b"
)

type fixture struct {
	store    *memory.Store
	orders   *purchasing.OrderUseCase
	receipts *purchasing.ReceiptUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: whID, TenantID: tenantID, Name: "Central"})
	store.AddProduct(entity.Product{ID: prodA, TenantID: tenantID, Name: "Jean clásico"})
	store.AddProduct(entity.Product{ID: prodB, TenantID: tenantID, Name: "Camisa oxford"})
	return &fixture{
		store:    store,
		orders:   purchasing.NewOrderUseCase(store, store.Repos(), logger.Nop()),
		receipts: purchasing.NewReceiptUseCase(store, store.Repos(), ports.NopLocker{}, logger.Nop()),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func orderRequest() dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		SupplierID:  "sup-1",
		WarehouseID: whID,
		Lines: []dto.PurchaseOrderLineRequest{
			{ProductID: prodA, Quantity: 10, UnitPrice: dec("20.00")},
			{ProductID: prodB, Quantity: 5, UnitPrice: dec("30.00"), Discount: dec("10.00")},
		},
	}
}

// confirmedOrder crea una orden y la lleva a CONFIRMADA por la tabla de transiciones.
func (f *fixture) confirmedOrder(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)
	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "ENVIADA")
	require.NoError(t, err)
	o, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "CONFIRMADA")
	require.NoError(t, err)
	return o
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	b, err := f.store.Repos().Stock.Get(context.Background(), entity.StockKey{TenantID: tenantID, ProductID: productID, WarehouseID: whID})
	require.NoError(t, err)
	if b == nil {
		return 0
	}
	return b.Quantity
}

func full(lineID string, qty int) dto.ReceiptItemRequest {
	return dto.ReceiptItemRequest{OrderLineID: lineID, QuantityReceived: qty, QuantityAccepted: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_CodigoYTotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)
	assert.Equal(t, "OC-00001", o.Code)
	assert.Equal(t, "PENDIENTE", o.Status)
	// 10×20 + (5×30 − 10) = 340; IGV 61.20
	assert.True(t, o.Subtotal.Equal(dec("340.00")), o.Subtotal.String())
	assert.True(t, o.Discount.Equal(dec("10.00")))
	assert.True(t, o.Tax.Equal(dec("61.20")), o.Tax.String())
	assert.True(t, o.Total.Equal(dec("401.20")), o.Total.String())
	require.Len(t, o.Lines, 2)
	assert.True(t, o.Lines[1].Subtotal.Equal(dec("140.00")))

	o2, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)
	assert.Equal(t, "OC-00002", o2.Code)

	other, err := f.orders.Create(ctx, "tenant-2", userID, orderRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound, "el almacén no es del otro tenant")
	assert.Nil(t, other)
}

func TestCreateOrder_SinDetalles(t *testing.T) {
	f := newFixture(t)
	req := orderRequest()
	req.Lines = nil
	_, err := f.orders.Create(context.Background(), tenantID, userID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateOrder_SoloPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	req := orderRequest()
	req.Lines = []dto.PurchaseOrderLineRequest{{ProductID: prodA, Quantity: 2, UnitPrice: dec("10.00")}}
	updated, err := f.orders.Update(ctx, tenantID, o.ID, req)
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Total.Equal(dec("23.60")))
	assert.Equal(t, o.Code, updated.Code)

	got, err := f.orders.Get(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1, "los detalles se reemplazan")

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "ENVIADA")
	require.NoError(t, err)
	_, err = f.orders.Update(ctx, tenantID, o.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestChangeStatus_PendienteACompletadaRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "COMPLETADA")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "PENDIENTE", got.Status)
}

func TestChangeStatus_CompletadaEsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)

	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID,
		Items:   []dto.ReceiptItemRequest{full(o.Lines[0].ID, 10), full(o.Lines[1].ID, 5)},
	})
	require.NoError(t, err)
	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	require.NoError(t, err)

	for _, s := range []string{"PENDIENTE", "ENVIADA", "CONFIRMADA", "EN_RECEPCION", "PARCIAL", "CANCELADA"} {
		_, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, s)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, s)
	}
	assert.ErrorIs(t, f.orders.Cancel(ctx, tenantID, o.ID), domain.ErrInvalidState)
}

func TestChangeStatus_DestinoDebeCoincidirConCantidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	_, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, "EN_RECEPCION")
	require.NoError(t, err)

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "COMPLETADA")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "nada recibido aún")
	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, "PARCIAL")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 4)},
	})
	require.NoError(t, err)
	got, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, "PARCIAL")
	require.NoError(t, err)
	assert.Equal(t, "PARCIAL", got.Status)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	require.NoError(t, f.orders.Cancel(ctx, tenantID, o.ID))
	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "CANCELADA", got.Status)
	assert.ErrorIs(t, f.orders.Cancel(ctx, tenantID, o.ID), domain.ErrInvalidState)
	assert.ErrorIs(t, f.orders.Cancel(ctx, tenantID, "no-existe"), domain.ErrNotFound)
}

func TestListOrders_FiltroPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.confirmedOrder(t)
	_, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	all, err := f.orders.List(ctx, tenantID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	pend, err := f.orders.List(ctx, tenantID, "PENDIENTE", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, pend.Items, 1)
	assert.Equal(t, "OC-00002", pend.Items[0].Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones
// ──────────────────────────────────────────────────────────────────────────────

// Dos entregas parciales que suman lo ordenado llevan la orden a COMPLETADA
// y marcan la segunda recepción como completa.
func TestReceipts_DosEntregasCompletanLaOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	lineA, lineB := o.Lines[0].ID, o.Lines[1].ID

	r1, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, GuideNumber: "G-001",
		Items: []dto.ReceiptItemRequest{full(lineA, 6), full(lineB, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, "REC-00001", r1.Code)
	assert.Equal(t, "PENDIENTE", r1.Status)
	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "EN_RECEPCION", got.Status)
	assert.Equal(t, 0, f.stock(t, prodA), "registrar no mueve stock")

	r1, err = f.receipts.Confirm(ctx, tenantID, userID, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMADA", r1.Status)
	assert.False(t, r1.IsFullReception)
	got, _ = f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "PARCIAL", got.Status)
	assert.Equal(t, 6, f.stock(t, prodA))
	assert.Equal(t, 5, f.stock(t, prodB))

	r2, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(lineA, 4)},
	})
	require.NoError(t, err)
	r2, err = f.receipts.Confirm(ctx, tenantID, userID, r2.ID)
	require.NoError(t, err)
	assert.True(t, r2.IsFullReception)

	got, _ = f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "COMPLETADA", got.Status)
	assert.Equal(t, 10, got.Lines[0].QuantityReceived)
	assert.Equal(t, 10, f.stock(t, prodA))

	list, err := f.receipts.ListByOrder(ctx, tenantID, o.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "REC-00002", list.Items[1].Code)
}

func TestReceipts_EntregaQueCubreAlgunasLineasDejaParcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)

	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[1].ID, 5)},
	})
	require.NoError(t, err)
	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	require.NoError(t, err)

	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "PARCIAL", got.Status)
	assert.ErrorIs(t, f.orders.Cancel(ctx, tenantID, o.ID), domain.ErrInvalidState, "con recepciones no se cancela")
}

func TestReceipts_SoloAceptadoEntraAlStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)

	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID,
		Items: []dto.ReceiptItemRequest{{
			OrderLineID: o.Lines[0].ID, QuantityReceived: 10, QuantityAccepted: 8, QuantityRejected: 2, RejectionReason: "fallas",
		}},
	})
	require.NoError(t, err)
	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, f.stock(t, prodA))

	hist, _, err := f.store.Repos().Movements.ListByProduct(ctx, tenantID, prodA, whID, 10, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, r.Code, hist[0].DocumentReference)
	assert.Equal(t, entity.MovementEntrada, hist[0].Kind)
}

func TestReceipts_ExcesoSobrePendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)

	_, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 7)},
	})
	require.NoError(t, err)
	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[1].ID, 1), full(o.Lines[0].ID, 4)},
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, 7, got.Lines[0].QuantityReceived)
	assert.Equal(t, 0, got.Lines[1].QuantityReceived, "rollback del detalle procesado antes del error")
}

func TestReceipts_DetalleDeOtraOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1 := f.confirmedOrder(t)
	o2 := f.confirmedOrder(t)

	_, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o1.ID, Items: []dto.ReceiptItemRequest{full(o2.Lines[0].ID, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrMismatchedParent)

	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o1.ID, Items: []dto.ReceiptItemRequest{full("no-existe", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceipts_AceptadoMasRechazadoDebeSumarRecibido(t *testing.T) {
	f := newFixture(t)
	o := f.confirmedOrder(t)

	_, err := f.receipts.Create(context.Background(), tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID,
		Items:   []dto.ReceiptItemRequest{{OrderLineID: o.Lines[0].ID, QuantityReceived: 5, QuantityAccepted: 5, QuantityRejected: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceipts_OrdenNoConfirmada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConfirmReceipt_DosVecesFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 3)},
	})
	require.NoError(t, err)

	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	require.NoError(t, err)
	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 3, f.stock(t, prodA), "la segunda confirmación no duplica la entrada")
}

func TestCancelReceipt_RevierteCantidadRecibida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 10)},
	})
	require.NoError(t, err)

	r, err = f.receipts.Cancel(ctx, tenantID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELADA", r.Status)

	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, 0, got.Lines[0].QuantityReceived)
	assert.Equal(t, 0, f.stock(t, prodA))

	_, err = f.receipts.Confirm(ctx, tenantID, userID, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// lo revertido vuelve a estar pendiente de recibir
	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 10)},
	})
	assert.NoError(t, err)
}

// Una confirmación que completó la orden gracias a otra recepción aún pendiente no debe
// dejarla COMPLETADA cuando esa otra recepción se anula.
func TestCancelReceipt_RecalculaEstadoDeLaOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	lineA, lineB := o.Lines[0].ID, o.Lines[1].ID

	r1, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(lineA, 10), full(lineB, 3)},
	})
	require.NoError(t, err)
	r2, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(lineB, 2)},
	})
	require.NoError(t, err)

	r1, err = f.receipts.Confirm(ctx, tenantID, userID, r1.ID)
	require.NoError(t, err)
	require.True(t, r1.IsFullReception)
	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	require.Equal(t, "COMPLETADA", got.Status)

	_, err = f.receipts.Cancel(ctx, tenantID, r2.ID)
	require.NoError(t, err)

	got, _ = f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "PARCIAL", got.Status)
	assert.Equal(t, 3, got.Lines[1].QuantityReceived)
	r1, err = f.receipts.Get(ctx, tenantID, r1.ID)
	require.NoError(t, err)
	assert.False(t, r1.IsFullReception, "la orden ya no está completa")

	// lo liberado se puede volver a recibir y completa la orden
	r3, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(lineB, 2)},
	})
	require.NoError(t, err)
	r3, err = f.receipts.Confirm(ctx, tenantID, userID, r3.ID)
	require.NoError(t, err)
	assert.True(t, r3.IsFullReception)
	got, _ = f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "COMPLETADA", got.Status)
	assert.Equal(t, 5, f.stock(t, prodB))
}

func TestCancelReceipt_SinNadaRecibidoVuelveAEnRecepcion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)

	r1, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 10), full(o.Lines[1].ID, 5)},
	})
	require.NoError(t, err)
	_, err = f.receipts.Cancel(ctx, tenantID, r1.ID)
	require.NoError(t, err)

	got, _ := f.orders.Get(ctx, tenantID, o.ID)
	assert.Equal(t, "EN_RECEPCION", got.Status)
}

func TestListReceipts_FiltroPorOrdenYEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1 := f.confirmedOrder(t)
	o2 := f.confirmedOrder(t)

	r1, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o1.ID, Items: []dto.ReceiptItemRequest{full(o1.Lines[0].ID, 2)},
	})
	require.NoError(t, err)
	_, err = f.receipts.Confirm(ctx, tenantID, userID, r1.ID)
	require.NoError(t, err)
	_, err = f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o1.ID, Items: []dto.ReceiptItemRequest{full(o1.Lines[0].ID, 1)},
	})
	require.NoError(t, err)
	r3, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o2.ID, Items: []dto.ReceiptItemRequest{full(o2.Lines[1].ID, 1)},
	})
	require.NoError(t, err)

	all, err := f.receipts.List(ctx, tenantID, "", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	require.NotNil(t, all.Page)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, r3.Code, all.Items[0].Code, "más recientes primero")

	ofOrder, err := f.receipts.List(ctx, tenantID, o1.ID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, ofOrder.Page.Total)

	pending, err := f.receipts.List(ctx, tenantID, "", "PENDIENTE", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Page.Total)

	confirmed, err := f.receipts.List(ctx, tenantID, o1.ID, "CONFIRMADA", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, confirmed.Items, 1)
	assert.Equal(t, r1.Code, confirmed.Items[0].Code)
	assert.Len(t, confirmed.Items[0].Lines, 1)

	page, err := f.receipts.List(ctx, tenantID, "", "", dto.PageFromNumber(2, 2))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, r1.Code, page.Items[0].Code)

	other, err := f.receipts.List(ctx, "otro-tenant", "", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

// lockedLocker simula un candado tomado por otra petición.
type lockedLocker struct{}

func (lockedLocker) Obtain(context.Context, string) (func(), error) { return nil, domain.ErrConflict }

func TestConfirmReceipt_CandadoOcupado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.confirmedOrder(t)
	r, err := f.receipts.Create(ctx, tenantID, userID, dto.CreateReceiptRequest{
		OrderID: o.ID, Items: []dto.ReceiptItemRequest{full(o.Lines[0].ID, 1)},
	})
	require.NoError(t, err)

	locked := purchasing.NewReceiptUseCase(f.store, f.store.Repos(), lockedLocker{}, logger.Nop())
	_, err = locked.Confirm(ctx, tenantID, userID, r.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, f.stock(t, prodA))
}
