package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/JairoProDev/mitube-go/internal/handler"
	"github.com/JairoProDev/mitube-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Playlist     *handler.PlaylistHandler
	Notification *handler.NotificationHandler
	Stats        *handler.StatsHandler
	Health       *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given
// Fiber app. verifier resolves bearer tokens for the auth middlewares.
func Setup(app *fiber.App, h *Handlers, verifier middleware.TokenVerifier, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	authLimit := middleware.NewAuthRateLimiter().Handler()
	viewLimit := middleware.NewViewRateLimiter().Handler()
	writeLimit := middleware.NewWriteRateLimiter().Handler()
	statsLimit := middleware.NewStatsRateLimiter().Handler()

	// Health and metrics (no auth)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	// Auth routes
	api.Post("/auth/signup", h.Auth.SignUp, authLimit)
	api.Post("/auth/signin", h.Auth.SignIn, authLimit)
	api.Post("/auth/signout", h.Auth.SignOut)

	// User routes
	api.Get("/users/:id", h.User.Get, optionalAuth)
	api.Put("/users/:id", h.User.Update, requireAuth, writeLimit)
	api.Delete("/users/:id", h.User.Delete, requireAuth)
	api.Post("/users/sub/:channelId", h.User.Subscribe, requireAuth, writeLimit)
	api.Post("/users/unsub/:channelId", h.User.Unsubscribe, requireAuth, writeLimit)

	// Video routes. Static segments before the :id catch-all.
	api.Get("/videos/random", h.Video.Random, viewLimit)
	api.Get("/videos/trend", h.Video.Trend, viewLimit)
	api.Get("/videos/sub", h.Video.Subscriptions, requireAuth)
	api.Get("/videos/search", h.Video.Search, viewLimit)
	api.Get("/videos/tags", h.Video.ByTags, viewLimit)
	api.Post("/videos", h.Video.Create, requireAuth, writeLimit)
	api.Get("/videos/:id", h.Video.Get, optionalAuth, viewLimit)
	api.Put("/videos/:id", h.Video.Update, requireAuth, writeLimit)
	api.Delete("/videos/:id", h.Video.Delete, requireAuth)
	api.Post("/videos/view/:id", h.Video.AddView, viewLimit)
	api.Post("/videos/like/:id", h.Video.Like, requireAuth, writeLimit)
	api.Post("/videos/dislike/:id", h.Video.Dislike, requireAuth, writeLimit)

	// Comment routes
	api.Post("/comments", h.Comment.Create, requireAuth, writeLimit)
	api.Get("/comments/:videoId", h.Comment.List, viewLimit)
	api.Delete("/comments/:id", h.Comment.Delete, requireAuth)

	// Playlist routes
	api.Post("/playlists", h.Playlist.Create, requireAuth, writeLimit)
	api.Get("/playlists/user/:userId", h.Playlist.ListByOwner, optionalAuth)
	api.Get("/playlists/:id", h.Playlist.Get, optionalAuth)
	api.Put("/playlists/:id", h.Playlist.Update, requireAuth, writeLimit)
	api.Delete("/playlists/:id", h.Playlist.Delete, requireAuth)
	api.Post("/playlists/:id/videos/:videoId", h.Playlist.AddVideo, requireAuth, writeLimit)
	api.Delete("/playlists/:id/videos/:videoId", h.Playlist.RemoveVideo, requireAuth)

	// Notification routes
	api.Get("/notifications", h.Notification.List, requireAuth)
	api.Put("/notifications/read", h.Notification.MarkAllRead, requireAuth)
	api.Put("/notifications/:id/read", h.Notification.MarkRead, requireAuth)
	api.Delete("/notifications/:id", h.Notification.Delete, requireAuth)

	// Stats routes (owner-only, enforced in the handlers)
	api.Get("/stats/channel/:userId", h.Stats.Channel, requireAuth, statsLimit)
	api.Get("/stats/video/:videoId", h.Stats.Video, requireAuth, statsLimit)
	api.Get("/stats/summary", h.Stats.Summary, requireAuth, statsLimit)
}
