package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint-backend/api/controllers"
	"github.com/tillpoint/tillpoint-backend/api/middleware"
	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/internal/catalog"
	"github.com/tillpoint/tillpoint-backend/internal/customers"
	"github.com/tillpoint/tillpoint-backend/internal/features"
	"github.com/tillpoint/tillpoint-backend/internal/orders"
	"github.com/tillpoint/tillpoint-backend/internal/receipts"
	"github.com/tillpoint/tillpoint-backend/internal/reports"
	"github.com/tillpoint/tillpoint-backend/internal/settings"
	"github.com/tillpoint/tillpoint-backend/pkg/db"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Wiring happens once in
// cmd/api; handlers never reach for globals.
type Deps struct {
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Carts     *cart.Service
	Catalog   catalog.Service
	Customers customers.Service
	Orders    orders.Service
	Settings  settings.Service
	Features  features.Service
	Reports   reports.Service
	Receipts  *receipts.Renderer
}

func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
			r.Put("/{productId}", controllers.UpdateProduct(deps.Catalog, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Catalog, logg))
		})

		r.Route("/addons", func(r chi.Router) {
			r.Get("/", controllers.ListAddons(deps.Catalog, logg))
			r.Post("/", controllers.CreateAddon(deps.Catalog, logg))
			r.Put("/{addonId}", controllers.UpdateAddon(deps.Catalog, logg))
			r.Delete("/{addonId}", controllers.DeleteAddon(deps.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(deps.Catalog, logg))
			r.Post("/", controllers.CreateCategory(deps.Catalog, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(deps.Catalog, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(deps.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(deps.Customers, logg))
			r.Post("/resolve", controllers.ResolveCustomer(deps.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomer(deps.Customers, logg))
		})

		r.Route("/registers/{registerId}/cart", func(r chi.Router) {
			r.Get("/", controllers.CartLines(deps.Carts, logg))
			r.Delete("/", controllers.CartClear(deps.Carts, logg))
			r.Get("/quote", controllers.CartQuote(deps.Carts, logg))
			r.Post("/lines", controllers.CartAddLine(deps.Carts, logg))
			r.Post("/addon-lines", controllers.CartAddAddonLine(deps.Carts, logg))
			r.Post("/reward-lines", controllers.CartAddRewardLine(deps.Carts, logg))
			r.Patch("/lines/{lineId}", controllers.CartSetLineQuantity(deps.Carts, logg))
			r.Delete("/lines/{lineId}", controllers.CartRemoveLine(deps.Carts, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
			r.Post("/{orderId}/uncancel", controllers.UncancelOrder(deps.Orders, logg))
			r.Get("/{orderId}/receipt", controllers.OrderReceipt(deps.Orders, deps.Settings, deps.Receipts, logg))
		})

		r.Get("/reports/sales", controllers.SalesReport(deps.Reports, deps.Settings, deps.Receipts, logg))

		r.Post("/payments/change", controllers.ChangeBreakdown(logg))
		r.Get("/payments/denominations", controllers.ListDenominations())

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(deps.Settings, logg))
			r.Put("/", controllers.ReplaceSettings(deps.Settings, logg))
		})

		r.Route("/features", func(r chi.Router) {
			r.Get("/", controllers.ListFeatures(deps.Features, logg))
			r.Put("/", controllers.ReplaceFeatures(deps.Features, logg))
		})
	})

	return r
}
