package purchasing

import (
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// transitions tabla de transiciones explícitas permitidas (origen → destinos).
var transitions = map[entity.PurchaseOrderStatus][]entity.PurchaseOrderStatus{
	entity.PurchaseOrderPendiente:   {entity.PurchaseOrderEnviada, entity.PurchaseOrderCancelada},
	entity.PurchaseOrderEnviada:     {entity.PurchaseOrderConfirmada, entity.PurchaseOrderCancelada},
	entity.PurchaseOrderConfirmada:  {entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderCancelada},
	entity.PurchaseOrderEnRecepcion: {entity.PurchaseOrderParcial, entity.PurchaseOrderCompletada},
	entity.PurchaseOrderParcial:     {entity.PurchaseOrderCompletada},
}

// CanTransition indica si from → to figura en la tabla.
func CanTransition(from, to entity.PurchaseOrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DeriveStatus es la única regla que decide PARCIAL/COMPLETADA a partir de las cantidades:
// COMPLETADA si todas las líneas están recibidas, PARCIAL si alguna tiene recepción, si no current.
func DeriveStatus(lines []entity.PurchaseOrderLine, current entity.PurchaseOrderStatus) entity.PurchaseOrderStatus {
	if len(lines) == 0 {
		return current
	}
	all, some := true, false
	for _, l := range lines {
		if l.QuantityReceived < l.QuantityOrdered {
			all = false
		}
		if l.QuantityReceived > 0 {
			some = true
		}
	}
	switch {
	case all:
		return entity.PurchaseOrderCompletada
	case some:
		return entity.PurchaseOrderParcial
	}
	return current
}

// AfterRelease estado de una orden en recepción cuando se liberan cantidades reservadas
// (recepción anulada): misma regla derivada, EN_RECEPCION si ya no queda nada recibido.
// Una orden fuera de recepción conserva su estado.
func AfterRelease(lines []entity.PurchaseOrderLine, current entity.PurchaseOrderStatus) entity.PurchaseOrderStatus {
	switch current {
	case entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderParcial, entity.PurchaseOrderCompletada:
		return DeriveStatus(lines, entity.PurchaseOrderEnRecepcion)
	}
	return current
}

// FullyReceived indica si todas las líneas alcanzaron lo ordenado.
func FullyReceived(lines []entity.PurchaseOrderLine) bool {
	return len(lines) > 0 && DeriveStatus(lines, "") == entity.PurchaseOrderCompletada
}

// ValidateTransition combina la tabla con la regla derivada: un destino PARCIAL/COMPLETADA
// solo se acepta si coincide con lo que dicen las cantidades recibidas.
func ValidateTransition(order *entity.PurchaseOrder, to entity.PurchaseOrderStatus) error {
	if !CanTransition(order.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, to)
	}
	if to == entity.PurchaseOrderParcial || to == entity.PurchaseOrderCompletada {
		if derived := DeriveStatus(order.Lines, order.Status); derived != to {
			return fmt.Errorf("%w: las cantidades recibidas indican %s", domain.ErrInvalidTransition, derived)
		}
	}
	return nil
}

// Cancellable la cancelación se rechaza si ya hubo recepciones o la orden terminó.
func Cancellable(status entity.PurchaseOrderStatus) bool {
	switch status {
	case entity.PurchaseOrderCompletada, entity.PurchaseOrderParcial, entity.PurchaseOrderCancelada:
		return false
	}
	return true
}

// Receivable estados que admiten registrar recepciones.
func Receivable(status entity.PurchaseOrderStatus) bool {
	switch status {
	case entity.PurchaseOrderConfirmada, entity.PurchaseOrderEnRecepcion, entity.PurchaseOrderParcial:
		return true
	}
	return false
}
