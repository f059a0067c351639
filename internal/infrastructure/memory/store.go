// Package memory implementa los repositorios en memoria de proceso.
// Cada transacción trabaja sobre una copia profunda del estado y solo la publica en Commit,
// por lo que un error deja todo exactamente como estaba.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	stock         map[entity.StockKey]*entity.StockBalance
	movements     []*entity.InventoryMovement
	orders        map[string]*entity.PurchaseOrder
	receipts      map[string]*entity.PurchaseReceipt
	sales         map[string]*entity.Sale
	sessions      map[string]*entity.CashSession
	cashMovements []*entity.CashMovement
	transfers     map[string]*entity.Transfer
	notes         map[string]*entity.CreditNote
	sequences     map[string]int64
	products      map[string]*entity.Product
	warehouses    map[string]*entity.Warehouse
}

func newState() *state {
	return &state{
		stock:      map[entity.StockKey]*entity.StockBalance{},
		orders:     map[string]*entity.PurchaseOrder{},
		receipts:   map[string]*entity.PurchaseReceipt{},
		sales:      map[string]*entity.Sale{},
		sessions:   map[string]*entity.CashSession{},
		transfers:  map[string]*entity.Transfer{},
		notes:      map[string]*entity.CreditNote{},
		sequences:  map[string]int64{},
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
	}
}

// clone copia profunda; las entidades guardadas nunca se comparten con el llamador.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stock {
		b := *v
		c.stock[k] = &b
	}
	c.movements = make([]*entity.InventoryMovement, len(s.movements))
	copy(c.movements, s.movements) // los movimientos son inmutables
	c.cashMovements = make([]*entity.CashMovement, len(s.cashMovements))
	copy(c.cashMovements, s.cashMovements)
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.receipts {
		c.receipts[k] = copyReceipt(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.sessions {
		cs := *v
		c.sessions[k] = &cs
	}
	for k, v := range s.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	for k, v := range s.notes {
		c.notes[k] = copyNote(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un mutex.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia pasa a ser el estado actual.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(reposFor(&access{st: working})); err != nil {
		return err
	}
	s.data = working
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
// No usar dentro de fn de Run.
func (s *Store) Repos() repository.Repos {
	return reposFor(&access{store: s})
}

func reposFor(a *access) repository.Repos {
	return repository.Repos{
		Stock:          &StockRepo{a: a},
		Movements:      &MovementRepo{a: a},
		PurchaseOrders: &PurchaseOrderRepo{a: a},
		Receipts:       &ReceiptRepo{a: a},
		Sales:          &SaleRepo{a: a},
		CashSessions:   &CashSessionRepo{a: a},
		CashMovements:  &CashMovementRepo{a: a},
		Transfers:      &TransferRepo{a: a},
		CreditNotes:    &CreditNoteRepo{a: a},
		Sequences:      &SequenceRepo{a: a},
		Products:       &ProductRepo{a: a},
		Warehouses:     &WarehouseRepo{a: a},
	}
}

// access resuelve el estado: el de la transacción en curso o el publicado (con lock).
type access struct {
	store *Store
	st    *state
}

func (a *access) do(fn func(st *state) error) error {
	if a.st != nil {
		return fn(a.st)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.data)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga de datos (dev y tests)
// ──────────────────────────────────────────────────────────────────────────────

// AddProduct registra un producto del catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = &p
}

// AddWarehouse registra un almacén.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.warehouses[w.ID] = &w
}

// SeedStock fija un saldo inicial registrando la ENTRADA correspondiente en el kardex,
// de modo que saldo y último movimiento coincidan.
func (s *Store) SeedStock(key entity.StockKey, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	before := 0
	b, ok := s.data.stock[key]
	if ok {
		before = b.Quantity
	} else {
		b = &entity.StockBalance{TenantID: key.TenantID, ProductID: key.ProductID, WarehouseID: key.WarehouseID}
		s.data.stock[key] = b
	}
	b.Quantity = before + qty
	b.Version++
	b.UpdatedAt = now
	s.data.movements = append(s.data.movements, &entity.InventoryMovement{
		ID:                uuid.New().String(),
		TenantID:          key.TenantID,
		ProductID:         key.ProductID,
		WarehouseID:       key.WarehouseID,
		Kind:              entity.MovementEntrada,
		Quantity:          qty,
		StockBefore:       before,
		StockAfter:        b.Quantity,
		DocumentReference: "SALDO-INICIAL",
		CreatedAt:         now,
	})
}

// Catálogo demo para arrancar el driver memory sin base de datos.
var (
	demoWarehouses = []entity.Warehouse{
		{ID: "wh-central", Name: "Central"},
		{ID: "wh-tienda", Name: "Tienda"},
	}
	demoProducts = []entity.Product{
		{ID: "prod-polera", SKU: "POL-001", Name: "Polera básica"},
		{ID: "prod-gorra", SKU: "GOR-001", Name: "Gorra"},
		{ID: "prod-mochila", SKU: "MOC-001", Name: "Mochila"},
	}
)

// SeedDemo carga almacenes, productos y 50 unidades de cada producto en el almacén central.
// Devuelve cuántos productos y almacenes registró.
func (s *Store) SeedDemo(tenantID string) (products, warehouses int) {
	for _, w := range demoWarehouses {
		w.TenantID = tenantID
		s.AddWarehouse(w)
	}
	for _, p := range demoProducts {
		p.TenantID = tenantID
		s.AddProduct(p)
		s.SeedStock(entity.StockKey{TenantID: tenantID, ProductID: p.ID, WarehouseID: demoWarehouses[0].ID}, 50)
	}
	return len(demoProducts), len(demoWarehouses)
}
