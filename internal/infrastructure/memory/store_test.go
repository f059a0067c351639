package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

var key = entity.StockKey{TenantID: "t1", ProductID: "p1", WarehouseID: "w1"}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	store.SeedStock(key, 10)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos repository.Repos) error {
		b, err := repos.Stock.GetForUpdate(ctx, key)
		require.NoError(t, err)
		b.Quantity = 0
		require.NoError(t, repos.Stock.Save(ctx, b))
		_, err = repos.Sequences.Next(ctx, "t1", entity.SeriesSale)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := store.Repos().Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 10, b.Quantity, "el rollback debe restaurar el saldo")

	n, err := store.Repos().Sequences.Next(ctx, "t1", entity.SeriesSale)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el correlativo consumido en la tx fallida no se publica")
}

func TestSave_VersionDesactualizadaEsConflicto(t *testing.T) {
	store := memory.NewStore()
	store.SeedStock(key, 3)
	ctx := context.Background()
	repos := store.Repos()

	a, err := repos.Stock.Get(ctx, key)
	require.NoError(t, err)
	b, err := repos.Stock.Get(ctx, key)
	require.NoError(t, err)

	a.Quantity = 1
	require.NoError(t, repos.Stock.Save(ctx, a))

	b.Quantity = 2
	assert.ErrorIs(t, repos.Stock.Save(ctx, b), domain.ErrConcurrentUpdate)

	fresh := &entity.StockBalance{TenantID: "t1", ProductID: "p1", WarehouseID: "w1"}
	assert.ErrorIs(t, repos.Stock.Save(ctx, fresh), domain.ErrConcurrentUpdate, "insert sobre clave existente")
}

func TestGetByID_OtroTenantNoVe(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "p1", TenantID: "t1", Name: "Casaca"})
	ctx := context.Background()

	p, err := store.Repos().Products.GetByID(ctx, "t2", "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = store.Repos().Products.GetByID(ctx, "t1", "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Casaca", p.Name)
}

func TestListByProduct_MasRecientePrimero(t *testing.T) {
	store := memory.NewStore()
	store.SeedStock(key, 1)
	store.SeedStock(key, 2)
	ctx := context.Background()

	list, total, err := store.Repos().Movements.ListByProduct(ctx, "t1", "p1", "", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].StockAfter)
}

func TestSeedDemo_CatalogoYSaldos(t *testing.T) {
	store := memory.NewStore()
	products, warehouses := store.SeedDemo("demo")
	assert.Equal(t, 3, products)
	assert.Equal(t, 2, warehouses)
	ctx := context.Background()
	repos := store.Repos()

	p, err := repos.Products.GetByID(ctx, "demo", "prod-polera")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "POL-001", p.SKU)

	w, err := repos.Warehouses.GetByID(ctx, "demo", "wh-tienda")
	require.NoError(t, err)
	assert.NotNil(t, w)

	other, err := repos.Products.GetByID(ctx, "otro", "prod-polera")
	require.NoError(t, err)
	assert.Nil(t, other, "el catálogo demo es del tenant indicado")

	list, err := repos.Stock.List(ctx, "demo", "", "wh-central")
	require.NoError(t, err)
	assert.Len(t, list, 3)
	last, err := repos.Movements.Latest(ctx, entity.StockKey{TenantID: "demo", ProductID: "prod-gorra", WarehouseID: "wh-central"})
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 50, last.StockAfter)
}
