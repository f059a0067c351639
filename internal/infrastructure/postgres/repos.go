package postgres

import "github.com/jhoicas/kardex-api/internal/domain/repository"

// NewRepos arma el conjunto de repositorios sobre q. Con lock=true (dentro de una tx)
// las lecturas de documentos toman la fila con FOR UPDATE.
func NewRepos(q Querier, lock bool) repository.Repos {
	return repository.Repos{
		Stock:          NewStockRepository(q),
		Movements:      NewInventoryMovementRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q, lock),
		Receipts:       NewPurchaseReceiptRepository(q, lock),
		Sales:          NewSaleRepository(q, lock),
		CashSessions:   NewCashSessionRepository(q, lock),
		CashMovements:  NewCashMovementRepository(q),
		Transfers:      NewTransferRepository(q, lock),
		CreditNotes:    NewCreditNoteRepository(q),
		Sequences:      NewSequenceRepository(q),
		Products:       NewProductRepository(q),
		Warehouses:     NewWarehouseRepository(q),
	}
}
