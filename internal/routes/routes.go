package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vkopaniev/contacts-api/internal/config"
	"github.com/vkopaniev/contacts-api/internal/handlers"
	"github.com/vkopaniev/contacts-api/internal/middleware"
	"github.com/vkopaniev/contacts-api/internal/store"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users store.UserStore,
	authHandler *handlers.AuthHandler,
	contactHandler *handlers.ContactHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded avatars are served as plain static files.
	app.Static("/avatars", cfg.AvatarsDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public
	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify/:verificationToken", authHandler.VerifyEmail)
	auth.Post("/verify", authHandler.ResendVerification)

	// Protected routes: JWT check, then stored-session check
	jwtGuard := middleware.JWTProtected(cfg)
	userGuard := middleware.RequireUser(users)

	api.Post("/auth/logout", jwtGuard, userGuard, authHandler.Logout)
	api.Get("/auth/current", jwtGuard, userGuard, authHandler.Current)
	api.Patch("/auth/avatars", jwtGuard, userGuard, authHandler.UpdateAvatar)

	contacts := api.Group("/contacts", jwtGuard, userGuard)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.Get)
	contacts.Post("/", contactHandler.Create)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Patch("/:id/favorite", contactHandler.UpdateFavorite)
	contacts.Delete("/:id", contactHandler.Delete)
}
