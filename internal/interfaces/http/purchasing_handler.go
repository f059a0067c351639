package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/purchasing"
)

// PurchasingHandler órdenes de compra y recepciones.
type PurchasingHandler struct {
	orders   *purchasing.OrderUseCase
	receipts *purchasing.ReceiptUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(orders *purchasing.OrderUseCase, receipts *purchasing.ReceiptUseCase) *PurchasingHandler {
	return &PurchasingHandler{orders: orders, receipts: receipts}
}

// CreateOrder godoc
// @Summary      Crear orden de compra (PENDIENTE, OC-xxxxx)
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "proveedor, almacén destino y detalles"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) CreateOrder(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.orders.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListOrders página de órdenes; ?status= filtra.
func (h *PurchasingHandler) ListOrders(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	page := dto.PageFromNumber(c.QueryInt("page", 1), c.QueryInt("size", 0))
	out, err := h.orders.List(c.Context(), tenantID, c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetOrder orden con sus detalles.
func (h *PurchasingHandler) GetOrder(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.orders.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateOrder reemplaza cabecera y detalles; solo en PENDIENTE.
func (h *PurchasingHandler) UpdateOrder(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.UpdatePurchaseOrderRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.orders.Update(c.Context(), tenantID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeOrderStatus godoc
// @Summary      Cambiar estado de la orden
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Orden"
// @Param        body  body  dto.ChangeStatusRequest  true  "estado destino"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *PurchasingHandler) ChangeOrderStatus(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.ChangeStatusRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.orders.ChangeStatus(c.Context(), tenantID, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelOrder anula la orden.
func (h *PurchasingHandler) CancelOrder(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	if err := h.orders.Cancel(c.Context(), tenantID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListReceipts recepciones de una orden.
func (h *PurchasingHandler) ListReceipts(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.receipts.ListByOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListAllReceipts página de recepciones; ?order_id= y ?status= filtran.
func (h *PurchasingHandler) ListAllReceipts(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	page := dto.PageFromNumber(c.QueryInt("page", 1), c.QueryInt("size", 0))
	out, err := h.receipts.List(c.Context(), tenantID, c.Query("order_id"), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateReceipt godoc
// @Summary      Registrar recepción (PENDIENTE, REC-xxxxx)
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "orden y cantidades por detalle"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-receipts [post]
func (h *PurchasingHandler) CreateReceipt(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateReceiptRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.receipts.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReceipt recepción con sus detalles.
func (h *PurchasingHandler) GetReceipt(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.receipts.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ConfirmReceipt ingresa al stock lo aceptado.
func (h *PurchasingHandler) ConfirmReceipt(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.receipts.Confirm(c.Context(), tenantID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelReceipt anula una recepción pendiente.
func (h *PurchasingHandler) CancelReceipt(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.receipts.Cancel(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
