package inventory

import (
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ApplyKind calcula el stock resultante de aplicar un movimiento (servicio de dominio puro).
// ENTRADA/AJUSTE_INGRESO suman, SALIDA/AJUSTE_EGRESO restan.
// Una salida mayor al saldo devuelve ErrInsufficientStock; el saldo nunca queda negativo.
func ApplyKind(before int, kind entity.MovementKind, qty int) (int, error) {
	if qty <= 0 || !kind.Valid() {
		return before, domain.ErrInvalidInput
	}
	if kind.IsOutbound() {
		if qty > before {
			return before, domain.ErrInsufficientStock
		}
		return before - qty, nil
	}
	return before + qty, nil
}

// CheckChain verifica que una secuencia de movimientos (cronológica) del mismo saldo encadene
// stockBefore/stockAfter sin huecos y termine en el saldo materializado.
func CheckChain(movements []entity.InventoryMovement, balance int) bool {
	if len(movements) == 0 {
		return balance == 0
	}
	for i, m := range movements {
		after, err := ApplyKind(m.StockBefore, m.Kind, m.Quantity)
		if err != nil || after != m.StockAfter {
			return false
		}
		if i > 0 && movements[i-1].StockAfter != m.StockBefore {
			return false
		}
	}
	return movements[len(movements)-1].StockAfter == balance
}
