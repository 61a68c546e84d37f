// Package routes defines the API routing configuration.
// It groups the HTTP routes by resource and attaches the
// authentication, role and maintenance middleware each group needs.
package routes

import (
	"safetrade/internal/config"
	"safetrade/internal/handlers"
	"safetrade/internal/metrics"
	"safetrade/internal/middleware"
	"safetrade/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/fx"
)

// Deps collects everything the router needs from the container.
type Deps struct {
	fx.In

	Config      *config.Config
	Metrics     *metrics.Metrics
	Auth        *middleware.AuthMiddleware
	Maintenance middleware.MaintenanceChecker

	AuthHandler         *handlers.AuthHandler
	TransactionHandler  *handlers.TransactionHandler
	DisputeHandler      *handlers.DisputeHandler
	RoomHandler         *handlers.RoomHandler
	NotificationHandler *handlers.NotificationHandler
	UserHandler         *handlers.UserHandler
	AdminHandler        *handlers.AdminHandler
	DashboardHandler    *handlers.DashboardHandler
	HealthHandler       *handlers.HealthHandler
}

// SetupRoutes mounts every route on app.
func SetupRoutes(app *fiber.App, d Deps) {
	app.Get("/health", d.HealthHandler.Check)
	app.Get("/metrics", d.Metrics.Handler())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to SafeTrade API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Groups get distinct prefixes; a group's middleware applies to every route under its prefix.
	maintenance := middleware.Maintenance(d.Maintenance)
	protected := []fiber.Handler{d.Auth.Handler, maintenance}

	setupAuthRoutes(api, d, protected)
	setupTransactionRoutes(api.Group("/transactions", protected...), d.TransactionHandler)
	setupDisputeRoutes(api.Group("/disputes", protected...), d.DisputeHandler)
	setupRoomRoutes(api.Group("/rooms", protected...), d.RoomHandler)
	setupNotificationRoutes(api.Group("/notifications", protected...), d.NotificationHandler)
	setupUserRoutes(api.Group("/users", protected...), d.UserHandler)
	setupAdminRoutes(api.Group("/admin", d.Auth.Handler, middleware.RequireRole(models.RoleAdmin)), d)
}

func setupAuthRoutes(api fiber.Router, d Deps, protected []fiber.Handler) {
	h := d.AuthHandler
	auth := api.Group("/auth")

	limit := rateLimiter(d.Config)
	auth.Post("/register", limit, middleware.Maintenance(d.Maintenance), h.Register)
	auth.Post("/login", limit, h.Login)
	auth.Post("/refresh", h.Refresh)

	withAuth := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, protected...), handler)
	}
	auth.Post("/logout", withAuth(h.Logout)...)
	auth.Get("/profile", withAuth(h.Profile)...)
	auth.Put("/profile", withAuth(h.UpdateProfile)...)
	auth.Put("/change-password", withAuth(h.ChangePassword)...)
	auth.Get("/stats", withAuth(h.Stats)...)
}

func rateLimiter(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many attempts, please try again later")
		},
	})
}

func setupTransactionRoutes(router fiber.Router, h *handlers.TransactionHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/statistics", middleware.RequireRole(models.RoleAdmin), h.Statistics)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Put("/:id/cancel", h.Cancel)
}

func setupDisputeRoutes(router fiber.Router, h *handlers.DisputeHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/statistics", middleware.RequireRole(models.RoleAdmin), h.Statistics)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Put("/:id/assign", middleware.RequireRole(models.RoleAdmin), h.Assign)
}

func setupRoomRoutes(router fiber.Router, h *handlers.RoomHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/mine", h.Mine)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Post("/:id/join", h.Join)
	router.Delete("/:id/leave", h.Leave)
}

func setupNotificationRoutes(router fiber.Router, h *handlers.NotificationHandler) {
	router.Get("/", h.List)
	router.Get("/unread-count", h.UnreadCount)
	router.Put("/read-all", h.MarkAllRead)
	router.Put("/:id/read", h.MarkRead)
	router.Delete("/:id", h.Delete)
}

func setupUserRoutes(router fiber.Router, h *handlers.UserHandler) {
	admin := middleware.RequireRole(models.RoleAdmin)

	router.Get("/", admin, h.List)
	router.Get("/:id", h.Get)
	router.Put("/:id/status", admin, h.SetStatus)
}

func setupAdminRoutes(admin fiber.Router, d Deps) {
	admin.Get("/dashboard", d.DashboardHandler.Stats)

	admin.Get("/users", d.UserHandler.List)
	admin.Put("/users/:id/status", d.UserHandler.SetStatus)
	admin.Get("/transactions", d.TransactionHandler.ListAll)
	admin.Get("/disputes", d.DisputeHandler.ListAll)

	admin.Get("/settings", d.AdminHandler.ListSettings)
	admin.Put("/settings/:key", d.AdminHandler.UpdateSetting)

	admin.Get("/cache-stats", d.HealthHandler.CacheStats)
}
