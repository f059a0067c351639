package entity

// Product vista de solo lectura del catálogo; el inventario solo necesita nombre y SKU.
type Product struct {
	ID       string
	TenantID string
	SKU      string
	Name     string
}

// Warehouse almacén del tenant (solo lectura para validaciones).
type Warehouse struct {
	ID       string
	TenantID string
	Name     string
}
