package handler

import (
	"github.com/dafibh/fortuna/networth-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, dashboardHandler *DashboardHandler, costHandler *CostHandler, assumptionHandler *AssumptionHandler, wsHandler *WebSocketHandler) {
	// API version 1; reads pass through the limiter untouched
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/metrics", dashboardHandler.GetMetrics)
	dashboard.GET("/networth", dashboardHandler.GetNetWorth)
	dashboard.GET("/savings", dashboardHandler.GetSavings)
	dashboard.GET("/distributions", dashboardHandler.GetDistributions)
	dashboard.PUT("/series", dashboardHandler.ReplaceSeries)

	// Cost ledger routes
	costs := api.Group("/costs")
	costs.GET("", costHandler.GetCosts)
	costs.POST("", costHandler.CreateCost)
	costs.DELETE("/:index", costHandler.DeleteCost)

	// Assumption routes
	assumptions := api.Group("/assumptions")
	assumptions.GET("", assumptionHandler.GetAssumptions)
	assumptions.PUT("/:name", assumptionHandler.UpdateAssumption)

	// Real-time updates
	e.GET("/ws", wsHandler.HandleWS)
}
