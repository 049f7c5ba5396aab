package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"todohub/internal/adapter/http/handler"
	"todohub/internal/adapter/http/middleware"
	"todohub/internal/adapter/ws"
	"todohub/pkg/auth"
	"todohub/pkg/config"
	"todohub/pkg/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Todo    *handler.TodoHandler
	Share   *handler.ShareHandler
	Comment *handler.CommentHandler
	Label   *handler.LabelHandler
	Preset  *handler.PresetHandler
}

// NewRouter wires middleware and routes. Everything except signup, login,
// token refresh and /metrics sits behind JWT auth.
func NewRouter(
	cfg *config.AppConfig,
	jwt *auth.JWT,
	hub *ws.Hub,
	h Handlers,
	logger zerolog.Logger,
	m *metrics.AppMetrics,
	registry *prometheus.Registry,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Metrics(m))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg, logger, m)
		router.Use(limiter.Middleware())
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.POST("/signup", h.Auth.SignUp)
	router.POST("/auth", h.Auth.Login)
	router.POST("/auth/refresh", h.Auth.Refresh)

	authed := router.Group("/", jwt.GinMiddleware())

	authed.GET("/ws", hub.Serve)

	authed.GET("/users/me", h.User.Me)
	authed.PUT("/users/me", h.User.UpdateProfile)
	authed.PUT("/users/me/theme", h.User.UpdateTheme)

	todos := authed.Group("/todos")
	{
		todos.GET("", h.Todo.List)
		todos.POST("", h.Todo.Create)
		todos.GET("/search", h.Todo.Search)
		todos.POST("/search", h.Todo.Search)
		todos.GET("/statistics", h.Todo.Statistics)
		todos.POST("/bulk-complete", h.Todo.BulkComplete)
		todos.POST("/reorder", h.Todo.Reorder)
		todos.POST("/archive-old", h.Todo.ArchiveOld)

		todos.GET("/:id", h.Todo.Get)
		todos.PUT("/:id", h.Todo.Update)
		todos.DELETE("/:id", h.Todo.Delete)

		todos.GET("/:id/shares", h.Share.ListShares)
		todos.POST("/:id/shares", h.Share.Share)
		todos.PUT("/:id/shares/:userId", h.Share.UpdatePermission)
		todos.DELETE("/:id/shares/:userId", h.Share.Unshare)

		todos.GET("/:id/activities", h.Share.ListActivity)

		todos.GET("/:id/comments", h.Comment.ListByTodo)
		todos.POST("/:id/comments", h.Comment.Create)
	}

	authed.GET("/shared-with-me", h.Share.SharedWithMe)

	authed.GET("/comments/:id", h.Comment.Get)
	authed.PUT("/comments/:id", h.Comment.Update)
	authed.DELETE("/comments/:id", h.Comment.Delete)

	categories := authed.Group("/categories")
	{
		categories.GET("", h.Label.ListCategories)
		categories.POST("", h.Label.CreateCategory)
		categories.GET("/:id", h.Label.GetCategory)
		categories.PUT("/:id", h.Label.UpdateCategory)
		categories.DELETE("/:id", h.Label.DeleteCategory)
		categories.GET("/:id/todos", h.Todo.ListByCategory)
	}

	tags := authed.Group("/tags")
	{
		tags.GET("", h.Label.ListTags)
		tags.POST("", h.Label.CreateTag)
		tags.GET("/:id", h.Label.GetTag)
		tags.PUT("/:id", h.Label.UpdateTag)
		tags.DELETE("/:id", h.Label.DeleteTag)
		tags.GET("/:id/todos", h.Todo.ListByTag)
	}

	presets := authed.Group("/filter-presets")
	{
		presets.GET("", h.Preset.List)
		presets.POST("", h.Preset.Create)
		presets.GET("/:id", h.Preset.Get)
		presets.PUT("/:id", h.Preset.Update)
		presets.DELETE("/:id", h.Preset.Delete)
		presets.GET("/:id/apply", h.Preset.Apply)
	}

	return router
}
