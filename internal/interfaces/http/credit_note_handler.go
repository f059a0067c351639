package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/creditnote"
	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// CreditNoteHandler devoluciones sobre ventas.
type CreditNoteHandler struct {
	uc *creditnote.UseCase
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(uc *creditnote.UseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create emite y aplica la nota de crédito.
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateCreditNoteRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get nota de crédito.
func (h *CreditNoteHandler) Get(c *fiber.Ctx) error {
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

// ListBySale notas de una venta.
func (h *CreditNoteHandler) ListBySale(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ListBySale(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
