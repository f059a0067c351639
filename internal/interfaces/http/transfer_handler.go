package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/transfer"
)

// TransferHandler transferencias entre almacenes.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create registra la transferencia en PENDIENTE.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateTransferRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get transferencia con detalles.
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve mueve el stock entre almacenes.
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Approve(c.Context(), tenantID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel anula una transferencia pendiente.
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Cancel(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
