package server

import (
	"storefront_backend/handlers"
	"storefront_backend/internal/cart"
	"storefront_backend/internal/checkout"
	"storefront_backend/internal/session"
	"storefront_backend/middleware"
	"storefront_backend/utils"

	"github.com/gofiber/fiber/v2"
)

func registerRoutes(app *fiber.App, d Deps, auth *middleware.Auth, jwt *utils.JWTManager) {
	cfg := d.Config

	checkoutSvc := checkout.NewService(d.DB, cfg.KafkaTopic)
	sessions := session.NewStore(d.DB, cfg.SessionTTL)

	authHandler := handlers.NewAuthHandler(d.DB, jwt)
	productHandler := handlers.NewProductHandler(d.DB)
	categoryHandler := handlers.NewCategoryHandler(d.DB)
	cartHandler := handlers.NewCartHandler(cart.NewService(d.DB))
	orderHandler := handlers.NewOrderHandler(checkoutSvc, d.Metrics)
	adminHandler := handlers.NewAdminHandler(d.DB, checkoutSvc, d.Hub)
	notificationHandler := handlers.NewNotificationHandler(d.Hub)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir, "/uploads")
	userHandler := handlers.NewUserHandler(d.DB)

	// Health Check Endpoint
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Server is running"})
	}
	app.Get("/health", health)
	app.Get("/metrics", d.Metrics.Handler())
	app.Static("/uploads", cfg.UploadDir)
	app.Get("/ws/orders", auth.RequireAuth, notificationHandler.WebSocketUpgradeMiddleware, notificationHandler.Handler())

	api := app.Group("/api")
	api.Get("/health", health)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", auth.RequireAuth, authHandler.Me)
	authRoutes.Post("/logout", authHandler.Logout)

	products := api.Group("/products")
	products.Get("/", productHandler.GetProducts)
	products.Get("/featured/popular", productHandler.GetPopularProducts)
	products.Get("/:id", productHandler.GetProduct)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/:id", categoryHandler.GetCategory)

	cartRoutes := api.Group("/cart", auth.OptionalAuth, guestSession(sessions, cfg.SessionCookie, cfg.AppEnv == "production"))
	cartRoutes.Get("/", cartHandler.GetCart)
	cartRoutes.Post("/", cartHandler.AddToCart)
	cartRoutes.Post("/add", cartHandler.AddToCart)
	cartRoutes.Put("/:id", cartHandler.UpdateCartItem)
	cartRoutes.Delete("/:id", cartHandler.RemoveCartItem)
	cartRoutes.Delete("/", cartHandler.ClearCart)

	orders := api.Group("/orders", auth.RequireAuth)
	orders.Get("/", orderHandler.GetOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/", orderHandler.CreateOrder)

	admin := api.Group("/admin", auth.RequireAuth, auth.RequireAdmin)
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/products", adminHandler.GetProducts)
	admin.Post("/products", adminHandler.CreateProduct)
	admin.Put("/products/:id", adminHandler.UpdateProduct)
	admin.Delete("/products/:id", adminHandler.DeleteProduct)
	admin.Get("/orders", adminHandler.GetOrders)
	admin.Patch("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/users", userHandler.SearchUsers)
	admin.Post("/uploads", uploadHandler.UploadImage)
}

// guestSession only resolves the session cookie for anonymous requests;
// signed-in carts are scoped by user.
func guestSession(store *session.Store, cookieName string, secure bool) fiber.Handler {
	resolve := store.Middleware(cookieName, secure)
	return func(c *fiber.Ctx) error {
		if middleware.CurrentUser(c) != nil {
			return c.Next()
		}
		return resolve(c)
	}
}
