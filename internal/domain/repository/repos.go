package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Stock          StockRepository
	Movements      InventoryMovementRepository
	PurchaseOrders PurchaseOrderRepository
	Receipts       PurchaseReceiptRepository
	Sales          SaleRepository
	CashSessions   CashSessionRepository
	CashMovements  CashMovementRepository
	Transfers      TransferRepository
	CreditNotes    CreditNoteRepository
	Sequences      SequenceRepository
	Products       ProductRepository
	Warehouses     WarehouseRepository
}
