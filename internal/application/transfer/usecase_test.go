package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/application/transfer"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

const (
	tenantID = "tenant-1"
	userID   = "jefe-almacen"
	w1       = "wh-1"
	w2       = "wh-2"
	prodP    = "prod-p"
	prodQ    = "prod-q"
)

func setup(t *testing.T) (*memory.Store, *transfer.UseCase) {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: w1, TenantID: tenantID, Name: "Central"})
	store.AddWarehouse(entity.Warehouse{ID: w2, TenantID: tenantID, Name: "Tienda Norte"})
	store.AddProduct(entity.Product{ID: prodP, TenantID: tenantID, Name: "Zapatilla urbana"})
	store.AddProduct(entity.Product{ID: prodQ, TenantID: tenantID, Name: "Medias"})
	return store, transfer.NewUseCase(store, store.Repos(), ports.NopLocker{}, logger.Nop())
}

func key(productID, warehouseID string) entity.StockKey {
	return entity.StockKey{TenantID: tenantID, ProductID: productID, WarehouseID: warehouseID}
}

func stockOf(t *testing.T, store *memory.Store, productID, warehouseID string) (int, bool) {
	t.Helper()
	b, err := store.Repos().Stock.Get(context.Background(), key(productID, warehouseID))
	require.NoError(t, err)
	if b == nil {
		return 0, false
	}
	return b.Quantity, true
}

// 3 unidades de W1 (stock 10) a W2 (sin saldo): W1=7, W2=3 y dos movimientos con el código TRF.
func TestApprove_Escenario(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock(key(prodP, w1), 10)
	ctx := context.Background()

	tr, err := uc.Create(ctx, tenantID, userID, dto.CreateTransferRequest{
		SourceWarehouseID: w1, DestinationWarehouseID: w2, Reason: "reposición",
		Items: []dto.TransferItemRequest{{ProductID: prodP, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-00001", tr.Code)
	assert.Equal(t, "PENDIENTE", tr.Status)

	tr, err = uc.Approve(ctx, tenantID, userID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "APROBADA", tr.Status)
	assert.Equal(t, userID, tr.ApprovedByID)
	assert.NotNil(t, tr.ApprovedAt)

	q1, _ := stockOf(t, store, prodP, w1)
	q2, ok := stockOf(t, store, prodP, w2)
	assert.Equal(t, 7, q1)
	assert.True(t, ok, "el saldo destino se crea al aprobar")
	assert.Equal(t, 3, q2)

	out, _, err := store.Repos().Movements.ListByProduct(ctx, tenantID, prodP, w1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSalida, out[0].Kind)
	assert.Equal(t, tr.Code, out[0].DocumentReference)

	in, _, err := store.Repos().Movements.ListByProduct(ctx, tenantID, prodP, w2, 10, 0)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, entity.MovementEntrada, in[0].Kind)
	assert.Equal(t, 0, in[0].StockBefore)
	assert.Equal(t, 3, in[0].StockAfter)
	assert.Equal(t, tr.Code, in[0].DocumentReference)
}

// Con stock insuficiente en una línea nada cambia: saldos, destino y kardex.
func TestApprove_StockInsuficienteNoDejaRastro(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock(key(prodP, w1), 10)
	store.SeedStock(key(prodQ, w1), 1)
	ctx := context.Background()

	tr, err := uc.Create(ctx, tenantID, userID, dto.CreateTransferRequest{
		SourceWarehouseID: w1, DestinationWarehouseID: w2,
		Items: []dto.TransferItemRequest{{ProductID: prodP, Quantity: 4}, {ProductID: prodQ, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, tenantID, userID, tr.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Medias")

	q, _ := stockOf(t, store, prodP, w1)
	assert.Equal(t, 10, q)
	_, ok := stockOf(t, store, prodP, w2)
	assert.False(t, ok, "el saldo destino no debe existir")
	_, total, _ := store.Repos().Movements.ListByProduct(ctx, tenantID, prodP, "", 10, 0)
	assert.Equal(t, 1, total, "solo el saldo inicial")

	got, err := uc.Get(ctx, tenantID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDIENTE", got.Status)
}

func TestCreate_MismoAlmacen(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.Create(context.Background(), tenantID, userID, dto.CreateTransferRequest{
		SourceWarehouseID: w1, DestinationWarehouseID: w1,
		Items: []dto.TransferItemRequest{{ProductID: prodP, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_SoloDesdePendiente(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock(key(prodP, w1), 10)
	ctx := context.Background()
	tr, err := uc.Create(ctx, tenantID, userID, dto.CreateTransferRequest{
		SourceWarehouseID: w1, DestinationWarehouseID: w2,
		Items: []dto.TransferItemRequest{{ProductID: prodP, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, tenantID, userID, tr.ID)
	require.NoError(t, err)
	_, err = uc.Approve(ctx, tenantID, userID, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Cancel(ctx, tenantID, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	q, _ := stockOf(t, store, prodP, w1)
	assert.Equal(t, 9, q)
}

func TestCancel(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()
	tr, err := uc.Create(ctx, tenantID, userID, dto.CreateTransferRequest{
		SourceWarehouseID: w1, DestinationWarehouseID: w2,
		Items: []dto.TransferItemRequest{{ProductID: prodP, Quantity: 1}},
	})
	require.NoError(t, err)

	tr, err = uc.Cancel(ctx, tenantID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELADA", tr.Status)
	_, err = uc.Approve(ctx, tenantID, userID, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
