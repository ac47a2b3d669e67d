package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Products    *ProductHandler
	Sales       *SaleHandler
	Stats       *StatsHandler
	Maintenance *MaintenanceHandler
	JWTSecret   string
	LedgerName  string // driver activo, reportado en /health
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Ledger: deps.LedgerName})
	})

	// Rutas protegidas (requieren Bearer Token emitido por el login externo)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	products := api.Group("/products")
	products.Get("/", deps.Products.List)
	products.Post("/", deps.Products.Create)
	products.Get("/:id", deps.Products.GetByID)
	products.Put("/:id", deps.Products.Update)
	products.Delete("/:id", admin, deps.Products.Delete)
	products.Post("/:id/adjust-stock", admin, deps.Products.AdjustStock)
	products.Get("/:id/stock-logs", deps.Products.StockLogs)
	products.Get("/:id/sales-stats", deps.Stats.ProductStats)

	// general-stats antes de cualquier ruta con parámetro bajo /sales
	sales := api.Group("/sales")
	sales.Get("/general-stats", deps.Stats.GeneralStats)
	sales.Get("/general-stats/pdf", deps.Stats.GeneralStatsPDF)
	sales.Post("/", deps.Sales.Create)
	sales.Get("/", deps.Sales.List)

	maintenance := api.Group("/maintenance", admin)
	maintenance.Post("/sweep", deps.Maintenance.Sweep)
}
