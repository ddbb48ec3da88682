package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/port"
	"todoapi/internal/shared"
	"todoapi/pkg/config"
)

type HandlersConfig struct {
	AuthService port.AuthService
	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
}

func SetupRouter(handlers HandlersConfig, metrics *shared.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("todoapi"))
	router.Use(metrics.RequestMiddleware())
	router.Use(corsMiddleware())

	if cfg.RateLimitEnabled {
		limiter := shared.NewRateLimiter(logger, metrics)
		router.Use(limiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests builds the same route table without the telemetry and
// rate-limiting middleware, so handler tests exercise routing alone.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.AuthHandler.Register)
		auth.POST("/login", handlers.AuthHandler.Login)
		auth.GET("/me", middleware.JwtAuth(handlers.AuthService), handlers.AuthHandler.Me)
	}

	todos := v1.Group("/todos")
	todos.Use(middleware.JwtAuth(handlers.AuthService))
	{
		todos.GET("", handlers.TodoHandler.GetTodos)
		todos.POST("", handlers.TodoHandler.CreateTodo)
		todos.GET("/overdue", handlers.TodoHandler.GetOverdueTodos)
		todos.GET("/today", handlers.TodoHandler.GetTodosDueToday)
		todos.GET("/:id", handlers.TodoHandler.GetTodo)
		todos.PATCH("/:id", handlers.TodoHandler.UpdateTodo)
		todos.DELETE("/:id", handlers.TodoHandler.DeleteTodo)
		todos.POST("/:id/complete", handlers.TodoHandler.CompleteTodo)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
