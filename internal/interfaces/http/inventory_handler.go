package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// InventoryHandler saldos, kardex y ajustes (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CurrentStock godoc
// @Summary      Saldos actuales
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por almacén"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.CurrentStock(c.Context(), tenantID, c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Kardex godoc
// @Summary      Kardex de un producto (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        page          query  int     false  "Página (desde 1)"
// @Param        size          query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.KardexResponse
// @Router       /api/inventory/kardex/{productId} [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	page := dto.PageFromNumber(c.QueryInt("page", 1), c.QueryInt("size", 0))
	out, err := h.uc.History(c.Context(), tenantID, c.Params("productId"), c.Query("warehouse_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts saldos en o bajo el mínimo.
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.LowStock(c.Context(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "AJUSTE_INGRESO | AJUSTE_EGRESO"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.AdjustmentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Adjust(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetMinQuantity fija el punto de reorden de un saldo.
func (h *InventoryHandler) SetMinQuantity(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.SetMinQuantityRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.SetMinQuantity(c.Context(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
