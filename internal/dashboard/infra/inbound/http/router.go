package http

import "github.com/gin-gonic/gin"

func RegisterDashboardRoutes(r *gin.Engine, handler *DashboardHandler) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/products/:id", handler.GetProduct)
		dashboard.GET("/products", handler.ListProducts)
		dashboard.GET("/orders/:id", handler.GetOrder)
		dashboard.GET("/orders", handler.ListOrders)
		dashboard.GET("/payments", handler.ListPayments)
		dashboard.GET("/analytics/volume", handler.GetDailyVolume)
	}
}
