package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/sales"
)

// SalesHandler ventas y sesiones de caja.
type SalesHandler struct {
	sales    *sales.SaleUseCase
	sessions *sales.CashSessionUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(s *sales.SaleUseCase, cs *sales.CashSessionUseCase) *SalesHandler {
	return &SalesHandler{sales: s, sessions: cs}
}

// CreateSale registra la venta en PENDIENTE.
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateSaleRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.sales.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSales página de ventas; ?status=, ?customer_id= y ?from=AAAA-MM-DD filtran.
func (h *SalesHandler) ListSales(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	q := dto.SaleListQuery{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		From:       c.Query("from"),
	}
	page := dto.PageFromNumber(c.QueryInt("page", 1), c.QueryInt("size", 0))
	out, err := h.sales.List(c.Context(), tenantID, q, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSale venta con detalles y pagos.
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.sales.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ConfirmPayment godoc
// @Summary      Confirmar pago y descontar stock
// @Description  Registra los pagos y una SALIDA por detalle. Si un producto no alcanza, no se aplica nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Venta"
// @Param        body  body  dto.ConfirmPaymentRequest  true  "pagos y monto recibido"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/confirm-payment [post]
func (h *SalesHandler) ConfirmPayment(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.ConfirmPaymentRequest
	if len(c.Body()) > 0 {
		if !bindAndValidate(c, &in) {
			return nil
		}
	}
	out, err := h.sales.ConfirmPayment(c.Context(), tenantID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelSale anula una venta pendiente.
func (h *SalesHandler) CancelSale(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.sales.Cancel(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OpenSession abre una sesión de caja para el usuario del token.
func (h *SalesHandler) OpenSession(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.OpenCashSessionRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.sessions.Open(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CloseSession cierra la sesión y calcula la diferencia.
func (h *SalesHandler) CloseSession(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CloseCashSessionRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.sessions.Close(c.Context(), tenantID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSession sesión de caja.
func (h *SalesHandler) GetSession(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.sessions.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListSessions página de sesiones; ?status= y ?register_id= filtran.
func (h *SalesHandler) ListSessions(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	page := dto.PageFromNumber(c.QueryInt("page", 1), c.QueryInt("size", 0))
	out, err := h.sessions.List(c.Context(), tenantID, c.Query("status"), c.Query("register_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar ingreso o egreso de caja
// @Description  Solo con la sesión ABIERTA. El cierre descuenta los egresos y suma los ingresos al efectivo esperado.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Sesión de caja"
// @Param        body  body  dto.CashMovementRequest  true  "tipo, monto y motivo"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/movements [post]
func (h *SalesHandler) RegisterMovement(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CashMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.sessions.RegisterMovement(c.Context(), tenantID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
