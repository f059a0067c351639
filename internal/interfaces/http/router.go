package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/creditnote"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/purchasing"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/application/transfer"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC   *inventory.UseCase
	OrderUC       *purchasing.OrderUseCase
	ReceiptUC     *purchasing.ReceiptUseCase
	SaleUC        *sales.SaleUseCase
	CashSessionUC *sales.CashSessionUseCase
	TransferUC    *transfer.UseCase
	CreditNoteUC  *creditnote.UseCase
	JWTSecret     string
	AppName       string
}

// NewApp crea la app Fiber con el manejador de errores y el log de peticiones.
func NewApp(log *logger.Logger, appName string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouseRoles := RequireRole(jwt.RoleAdmin, jwt.RoleSupervisor, jwt.RoleAlmacen)
	supervisorRoles := RequireRole(jwt.RoleAdmin, jwt.RoleSupervisor)
	cashierRoles := RequireRole(jwt.RoleAdmin, jwt.RoleSupervisor, jwt.RoleCajero)

	// Inventario
	inv := NewInventoryHandler(deps.InventoryUC)
	invGroup := api.Group("/inventory")
	invGroup.Get("/stock", inv.CurrentStock)
	invGroup.Get("/kardex/:productId", inv.Kardex)
	invGroup.Get("/alerts", inv.Alerts)
	invGroup.Post("/adjustments", warehouseRoles, inv.Adjust)
	invGroup.Put("/min-stock", warehouseRoles, inv.SetMinQuantity)

	// Compras
	pur := NewPurchasingHandler(deps.OrderUC, deps.ReceiptUC)
	orders := api.Group("/purchase-orders")
	orders.Post("/", warehouseRoles, pur.CreateOrder)
	orders.Get("/", pur.ListOrders)
	orders.Get("/:id", pur.GetOrder)
	orders.Put("/:id", warehouseRoles, pur.UpdateOrder)
	orders.Patch("/:id/status", supervisorRoles, pur.ChangeOrderStatus)
	orders.Delete("/:id", supervisorRoles, pur.CancelOrder)
	orders.Get("/:id/receipts", pur.ListReceipts)

	receipts := api.Group("/purchase-receipts", warehouseRoles)
	receipts.Post("/", pur.CreateReceipt)
	receipts.Get("/", pur.ListAllReceipts)
	receipts.Get("/:id", pur.GetReceipt)
	receipts.Post("/:id/confirm", pur.ConfirmReceipt)
	receipts.Post("/:id/cancel", pur.CancelReceipt)

	// Ventas y caja
	sh := NewSalesHandler(deps.SaleUC, deps.CashSessionUC)
	salesGroup := api.Group("/sales", cashierRoles)
	salesGroup.Post("/", sh.CreateSale)
	salesGroup.Get("/", sh.ListSales)
	salesGroup.Get("/:id", sh.GetSale)
	salesGroup.Post("/:id/confirm-payment", sh.ConfirmPayment)
	salesGroup.Post("/:id/cancel", sh.CancelSale)

	sessions := api.Group("/cash-sessions", cashierRoles)
	sessions.Post("/", sh.OpenSession)
	sessions.Get("/", sh.ListSessions)
	sessions.Get("/:id", sh.GetSession)
	sessions.Post("/:id/close", sh.CloseSession)
	sessions.Post("/:id/movements", sh.RegisterMovement)

	// Transferencias
	th := NewTransferHandler(deps.TransferUC)
	transfers := api.Group("/transfers", warehouseRoles)
	transfers.Post("/", th.Create)
	transfers.Get("/:id", th.Get)
	transfers.Post("/:id/approve", th.Approve)
	transfers.Post("/:id/cancel", th.Cancel)

	// Notas de crédito
	nh := NewCreditNoteHandler(deps.CreditNoteUC)
	notes := api.Group("/credit-notes", cashierRoles)
	notes.Post("/", nh.Create)
	notes.Get("/:id", nh.Get)
	salesGroup.Get("/:id/credit-notes", nh.ListBySale)
}
