package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"corebank/internal/api/handlers"
	"corebank/internal/api/middleware"
)

// RegisterRoutes registers every route the engine exposes (spec §6) against
// a configured gin.Engine.
func RegisterRoutes(router *gin.Engine, container *handlers.Container) {
	router.Use(middleware.Metrics())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticated := router.Group("/")
	authenticated.Use(middleware.RequestContextMiddleware())

	authenticated.POST("/accounts/deposit", handlers.MakeDepositHandler(container))
	authenticated.POST("/accounts/withdraw", handlers.MakeWithdrawHandler(container))
	authenticated.POST("/transfers", handlers.MakeTransferHandler(container))
	authenticated.GET("/accounts/:id/reconcile", handlers.MakeReconcileHandler(container))
	authenticated.POST("/bulk/process", handlers.MakeProcessBulkHandler(container))
}
