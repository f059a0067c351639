package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashSessionStatus estado de la sesión de caja.
type CashSessionStatus string

// Estados de la sesión de caja.
const (
	CashSessionAbierta CashSessionStatus = "ABIERTA"
	CashSessionCerrada CashSessionStatus = "CERRADA"
)

// CashSession turno de una caja registradora; TotalSales acumula las ventas confirmadas.
type CashSession struct {
	ID            string
	TenantID      string
	RegisterID    string
	UserID        string
	OpeningAmount decimal.Decimal
	TotalSales    decimal.Decimal
	ClosingAmount *decimal.Decimal
	Difference    *decimal.Decimal
	Status        CashSessionStatus
	Notes         string
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

// CashMovementKind entrada o salida de efectivo fuera de las ventas.
type CashMovementKind string

// Tipos de movimiento de caja.
const (
	CashMovementIngreso CashMovementKind = "INGRESO"
	CashMovementEgreso  CashMovementKind = "EGRESO"
)

// CashMovement ingreso o egreso manual registrado en una sesión abierta.
type CashMovement struct {
	ID          string
	TenantID    string
	SessionID   string
	Kind        CashMovementKind
	Amount      decimal.Decimal
	Reason      string
	Description string
	UserID      string
	CreatedAt   time.Time
}

// CashTotals suma ingresos y egresos de los movimientos.
func CashTotals(movements []*CashMovement) (income, expense decimal.Decimal) {
	for _, m := range movements {
		switch m.Kind {
		case CashMovementIngreso:
			income = income.Add(m.Amount)
		case CashMovementEgreso:
			expense = expense.Add(m.Amount)
		}
	}
	return income, expense
}

// Expected efectivo que debería haber en caja: apertura + ventas + ingresos - egresos.
func (cs *CashSession) Expected(movements []*CashMovement) decimal.Decimal {
	income, expense := CashTotals(movements)
	return cs.OpeningAmount.Add(cs.TotalSales).Add(income).Sub(expense)
}
