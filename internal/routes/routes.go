package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/handlers"
	"github.com/unlatch-ai/poke-daddy/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	blockingHandler *handlers.BlockingHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)

	// User-facing endpoints (JWT required). Note the asymmetry: the only
	// session transition exposed here is Start, via /blocking/toggle.
	app.Get("/users/me", middleware.JWTProtected(cfg), authHandler.Me)

	profiles := app.Group("/profiles", middleware.JWTProtected(cfg))
	profiles.Get("/", profileHandler.List)
	profiles.Post("/", profileHandler.Create)
	profiles.Put("/:id", profileHandler.Update)
	profiles.Delete("/:id", profileHandler.Delete)
	profiles.Get("/:id/restricted-apps", profileHandler.RestrictedApps)

	blocking := app.Group("/blocking", middleware.JWTProtected(cfg))
	blocking.Post("/toggle", blockingHandler.Toggle)
	blocking.Get("/status", blockingHandler.Status)

	// Admin surface for the tool gateway: email-keyed, no user JWT,
	// optionally gated by the shared admin token.
	admin := app.Group("/admin", middleware.AdminGate(cfg))
	admin.Get("/status-by-email", adminHandler.StatusByEmail)
	admin.Post("/unblock-app-by-email", adminHandler.UnblockAppByEmail)
	admin.Post("/end-blocking-by-email", adminHandler.EndBlockingByEmail)
	admin.Post("/start-blocking-by-email", adminHandler.StartBlockingByEmail)
	admin.Post("/unblock-app", adminHandler.UnblockApp)
	admin.Post("/end-blocking", adminHandler.EndBlocking)
}
