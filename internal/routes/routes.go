package routes

import (
	"github.com/gin-gonic/gin"

	"servifast_backend/internal/handlers"
	"servifast_backend/internal/logger"
	"servifast_backend/ws"
)

// RegisterRoutes registers every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.WorkerHandler.RegisterRoutes(api)
		appHandlers.SubscriptionHandler.RegisterRoutes(api)
		appHandlers.CommissionHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)

		// Socket routes authenticate inside the handler: browsers cannot set
		// an Authorization header on the upgrade request.
		api.GET("/chat/ws/:jobID", wsHandler.ChatSocket)
		api.GET("/notifications/ws/dashboard", wsHandler.DashboardSocket)
	}

	logger.Info("Routes registered")
}
