package routes

import (
	"net/http"
	"time"

	"gigmarket_backend/internal/handlers"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/ws"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	requireAuth gin.HandlerFunc,
	env string,
) {
	api := ginRouter.Group("/api")
	{
		api.GET("/health", healthCheck(env))

		appHandlers.AuthHandler.RegisterRoutes(api, requireAuth)
		appHandlers.UserHandler.RegisterRoutes(api, requireAuth)
		appHandlers.GigHandler.RegisterRoutes(api, requireAuth)
		appHandlers.OrderHandler.RegisterRoutes(api, requireAuth)
		appHandlers.ReviewHandler.RegisterRoutes(api, requireAuth)
		appHandlers.MessageHandler.RegisterRoutes(api, requireAuth)
	}

	// токен проверяет сам ServeWS: браузер не шлет заголовки при апгрейде
	ginRouter.GET("/ws", wsHandler.ServeWS)
	logger.Info("WebSocket route /ws registered")
}

func healthCheck(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"status":      "healthy",
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": env,
		})
	}
}
