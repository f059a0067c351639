package creditnote_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/creditnote"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/application/sales"
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
	userID   = "supervisor"
	whID     = "wh-1"
	prodP    = "prod-p"
)

type fixture struct {
	store *memory.Store
	sales *sales.SaleUseCase
	notes *creditnote.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: whID, TenantID: tenantID, Name: "Tienda"})
	store.AddProduct(entity.Product{ID: prodP, TenantID: tenantID, Name: "Polera"})
	return &fixture{
		store: store,
		sales: sales.NewSaleUseCase(store, store.Repos(), ports.NopLocker{}, logger.Nop()),
		notes: creditnote.NewUseCase(store, store.Repos(), ports.NopLocker{}, logger.Nop()),
	}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	b, err := f.store.Repos().Stock.Get(context.Background(),
		entity.StockKey{TenantID: tenantID, ProductID: prodP, WarehouseID: whID})
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Quantity
}

// completedSale vende qty unidades de prodP a 10.00 y confirma el pago.
func (f *fixture) completedSale(t *testing.T, qty int) *dto.SaleResponse {
	t.Helper()
	ctx := context.Background()
	s, err := f.sales.Create(ctx, tenantID, userID, dto.CreateSaleRequest{
		WarehouseID: whID,
		Items:       []dto.SaleItemRequest{{ProductID: prodP, Quantity: qty, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	s, err = f.sales.ConfirmPayment(ctx, tenantID, userID, s.ID, dto.ConfirmPaymentRequest{
		Payments: []dto.PaymentRequest{{PaymentMethodID: "EFECTIVO", Amount: s.Total}},
	})
	require.NoError(t, err)
	return s
}

func returnOf(sale *dto.SaleResponse, qty int) dto.CreateCreditNoteRequest {
	return dto.CreateCreditNoteRequest{
		SaleID: sale.ID,
		Reason: "talla incorrecta",
		Items:  []dto.CreditNoteItemRequest{{SaleLineID: sale.Lines[0].ID, Quantity: qty}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Nota de crédito
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReingresaStockYCalculaTotales(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.StockKey{TenantID: tenantID, ProductID: prodP, WarehouseID: whID}, 10)
	sale := f.completedSale(t, 4)
	require.Equal(t, 6, f.stock(t))

	n, err := f.notes.Create(context.Background(), tenantID, userID, returnOf(sale, 2))
	require.NoError(t, err)
	assert.Equal(t, "NC-00001", n.Code)
	assert.Equal(t, "APLICADA", n.Status)
	assert.NotNil(t, n.RefundedAt)
	assert.True(t, decimal.RequireFromString("20.00").Equal(n.Subtotal))
	assert.True(t, decimal.RequireFromString("3.60").Equal(n.Tax))
	assert.True(t, decimal.RequireFromString("23.60").Equal(n.Total))
	assert.Equal(t, 8, f.stock(t))

	movs, _, err := f.store.Repos().Movements.ListByProduct(context.Background(), tenantID, prodP, whID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, movs[0].Kind)
	assert.Equal(t, n.Code, movs[0].DocumentReference)
}

// Devolver más de lo vendido falla y el stock no cambia.
func TestCreate_ExcesoNoModificaStock(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.StockKey{TenantID: tenantID, ProductID: prodP, WarehouseID: whID}, 10)
	sale := f.completedSale(t, 3)

	_, err := f.notes.Create(context.Background(), tenantID, userID, returnOf(sale, 4))
	require.ErrorIs(t, err, domain.ErrExcessReturn)
	assert.Equal(t, 7, f.stock(t))
}

// El tope es acumulado entre notas de la misma venta.
func TestCreate_TopeAcumulado(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.StockKey{TenantID: tenantID, ProductID: prodP, WarehouseID: whID}, 10)
	sale := f.completedSale(t, 3)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, tenantID, userID, returnOf(sale, 2))
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, tenantID, userID, returnOf(sale, 2))
	require.ErrorIs(t, err, domain.ErrExcessReturn)
	_, err = f.notes.Create(ctx, tenantID, userID, returnOf(sale, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t))

	list, err := f.notes.ListBySale(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestCreate_VentaNoCompletada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.sales.Create(ctx, tenantID, userID, dto.CreateSaleRequest{
		WarehouseID: whID,
		Items:       []dto.SaleItemRequest{{ProductID: prodP, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	_, err = f.notes.Create(ctx, tenantID, userID, returnOf(s, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreate_DetalleDeOtraVenta(t *testing.T) {
	f := newFixture(t)
	f.store.SeedStock(entity.StockKey{TenantID: tenantID, ProductID: prodP, WarehouseID: whID}, 10)
	a := f.completedSale(t, 1)
	b := f.completedSale(t, 1)

	req := returnOf(a, 1)
	req.Items[0].SaleLineID = b.Lines[0].ID
	_, err := f.notes.Create(context.Background(), tenantID, userID, req)
	assert.ErrorIs(t, err, domain.ErrMismatchedParent)

	req.Items[0].SaleLineID = "no-existe"
	_, err = f.notes.Create(context.Background(), tenantID, userID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 8, f.stock(t))
}
