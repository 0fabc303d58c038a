package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/stock-api/internal/application/auth"
	"github.com/tallerpro/stock-api/internal/application/catalog"
	"github.com/tallerpro/stock-api/internal/application/reporting"
	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PartUC    *catalog.PartUseCase
	StockUC   *stock.UseCase
	Advisor   *stock.Advisor
	Reporting *reporting.AvailabilityUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de repuestos (protegido)
	parts := protected.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Post("/", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), partHandler.Update)

	// Motor de reservas y ledger (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/entries", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), stockHandler.RegisterEntry)
	stockGroup.Post("/reservations", stockHandler.Reserve)
	stockGroup.Post("/reservations/cancel", stockHandler.CancelReservation)
	stockGroup.Post("/consumptions", stockHandler.Consume)
	stockGroup.Post("/returns", stockHandler.Return)
	stockGroup.Get("/items/:id", stockHandler.GetItem)
	stockGroup.Put("/items/:id/minimum", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), stockHandler.SetMinimum)
	stockGroup.Get("/items/:id/movements", stockHandler.ListItemMovements)
	stockGroup.Get("/orders/:id/movements", stockHandler.ListOrderMovements)

	// Reportes y sugerencias (protegido)
	reports := protected.Group("/reports")
	reportingHandler := NewReportingHandler(deps.Reporting, deps.Advisor)
	reports.Get("/availability", reportingHandler.GetAvailability)
	reports.Get("/availability/vehicle/:id", reportingHandler.GetAvailabilityByVehicle)
	reports.Get("/availability/client/:id", reportingHandler.GetAvailabilityByClient)
	reports.Get("/consumption", reportingHandler.GetConsumptionStats)
	reports.Get("/purchase-suggestions", reportingHandler.GetPurchaseSuggestions)
	reports.Get("/stock.pdf", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), reportingHandler.GetStockReportPDF)
}
