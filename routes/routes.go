package routes

import (
	"github.com/gofiber/fiber/v2"

	"docchain-backend/controllers"
	"docchain-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction for mutating handlers
	protected.Use(middlewares.RequestTx())

	// Freelancer profile
	protected.Get("/profile", controllers.GetProfile)
	protected.Put("/profile", controllers.UpdateProfile)

	// Customers
	protected.Post("/customer", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customer/:id", controllers.GetCustomer)
	protected.Put("/customer/:id", controllers.UpdateCustomer)
	protected.Delete("/customer/:id", controllers.DeleteCustomer)

	// Service catalog
	protected.Post("/service", controllers.CreateServices) // batch create
	protected.Get("/services", controllers.GetServices)
	protected.Put("/services/:id", controllers.UpdateService)

	// Documents (quotation / invoice / receipt)
	protected.Post("/document", controllers.CreateDocument)
	protected.Get("/documents", controllers.GetDocuments)
	protected.Get("/document/:id", controllers.GetDocument)
	protected.Put("/documents/:id", controllers.UpdateDocument)
	protected.Put("/documents/:id/status", controllers.UpdateDocumentStatus)
	protected.Delete("/documents/:id", controllers.DeleteDocument)
	protected.Post("/documents/:id/pdf", controllers.RenderDocument)

	// Chain operations
	protected.Post("/documents/:id/link", controllers.LinkDocument)
	protected.Get("/documents/:id/chain", controllers.GetChain)
	protected.Post("/documents/:id/revise", controllers.ReviseDocument)
	protected.Post("/chains/:chainId/archive", controllers.ArchiveChain)
	protected.Delete("/chains/:chainId", controllers.DeleteChain)
}
