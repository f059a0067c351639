package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestApplyKind_EntradaSuma(t *testing.T) {
	after, err := inventory.ApplyKind(5, entity.MovementEntrada, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, after)

	after, err = inventory.ApplyKind(0, entity.MovementAjusteIngreso, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, after)
}

func TestApplyKind_SalidaResta(t *testing.T) {
	after, err := inventory.ApplyKind(5, entity.MovementSalida, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, after)

	after, err = inventory.ApplyKind(4, entity.MovementAjusteEgreso, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, after)
}

func TestApplyKind_SalidaMayorAlSaldoFalla(t *testing.T) {
	after, err := inventory.ApplyKind(2, entity.MovementSalida, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, after, "el saldo no debe cambiar")
}

func TestApplyKind_EntradaInvalida(t *testing.T) {
	_, err := inventory.ApplyKind(2, entity.MovementEntrada, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ApplyKind(2, entity.MovementKind("TRASLADO"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Entrada de q seguida de salida de q deja el saldo original y encadena before/after.
func TestCheckChain_EntradaSalidaVuelveAlOriginal(t *testing.T) {
	start := 7
	inAfter, err := inventory.ApplyKind(start, entity.MovementEntrada, 4)
	require.NoError(t, err)
	outAfter, err := inventory.ApplyKind(inAfter, entity.MovementSalida, 4)
	require.NoError(t, err)
	assert.Equal(t, start, outAfter)

	movs := []entity.InventoryMovement{
		{Kind: entity.MovementEntrada, Quantity: start, StockBefore: 0, StockAfter: start},
		{Kind: entity.MovementEntrada, Quantity: 4, StockBefore: start, StockAfter: inAfter},
		{Kind: entity.MovementSalida, Quantity: 4, StockBefore: inAfter, StockAfter: outAfter},
	}
	assert.True(t, inventory.CheckChain(movs, start))
	assert.False(t, inventory.CheckChain(movs, start+1))

	movs[2].StockBefore = 99
	assert.False(t, inventory.CheckChain(movs, start))
}

func TestStockError_UnwrapInsufficientStock(t *testing.T) {
	err := &domain.StockError{ProductID: "p1", ProductName: "Polo básico", Available: 1, Requested: 3}
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Polo básico")
	assert.Contains(t, err.Error(), "Disponible: 1")
}
