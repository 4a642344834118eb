package handler

import (
	"go-hpp-engine/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Dashboard   *DashboardHandler
	Products    *ProductHandler
	Hpp         *HppHandler
	Ingredients *CatalogHandler[model.Ingredient]
	Overheads   *CatalogHandler[model.OverheadEntry]
	Labor       *CatalogHandler[model.LaborEntry]
	Assets      *CatalogHandler[model.AssetEntry]
}

// RegisterRoutes mounts the /api/v1 tree. requireAuth guards everything but
// register and login.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) fiber.Router {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/auth/me", h.Auth.Me)
	protected.Put("/auth/me", h.Users.UpdateProfile)
	protected.Put("/auth/password", h.Users.ChangePassword)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/margins", h.Dashboard.GetLowestMargins)

	// Master data
	h.Ingredients.Mount(protected.Group("/ingredients"))
	h.Overheads.Mount(protected.Group("/overheads"))
	h.Labor.Mount(protected.Group("/labor"))
	h.Assets.Mount(protected.Group("/assets"))

	products := protected.Group("/products")
	products.Get("/", h.Products.GetProducts)
	products.Post("/", h.Products.CreateProduct)
	products.Get("/:id", h.Products.GetProduct)
	products.Put("/:id", h.Products.UpdateProduct)
	products.Delete("/:id", h.Products.DeleteProduct)
	products.Get("/:id/recipe", h.Products.GetRecipe)
	products.Post("/:id/recipe", h.Products.AddRecipeLine)
	protected.Put("/recipe-lines/:id", h.Products.UpdateRecipeLine)
	protected.Delete("/recipe-lines/:id", h.Products.DeleteRecipeLine)

	// HPP & pricing
	products.Get("/:id/hpp", h.Hpp.GetProductCost)
	products.Get("/:id/pricing", h.Hpp.Recommend)
	products.Post("/:id/pricing", h.Hpp.Recommend)
	products.Post("/:id/evaluate", h.Hpp.EvaluatePrice)
	products.Put("/:id/aggregate", h.Hpp.ImportAggregate)
	products.Delete("/:id/aggregate", h.Hpp.ClearAggregate)
	products.Post("/:id/aggregate/snapshot", h.Hpp.SnapshotAggregate)
	products.Put("/:id/bahan-summary", h.Hpp.SetBahanSummary)
	products.Delete("/:id/bahan-summary", h.Hpp.ClearBahanSummary)
	products.Put("/:id/manual-overhead", h.Hpp.SetManualOverhead)
	protected.Get("/hpp", h.Hpp.ListProductCosts)
	protected.Post("/promotions/evaluate", h.Hpp.EvaluatePromotion)

	return protected
}
