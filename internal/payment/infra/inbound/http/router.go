package http

import "github.com/gin-gonic/gin"

func RegisterPaymentRoutes(r *gin.Engine, handler *PaymentHandler) {
	payments := r.Group("/payments")
	{
		payments.POST("/", handler.InitiatePayment)
		payments.POST("/:id/confirm", handler.ConfirmPayment)
		payments.GET("/:id", handler.GetPayment)
	}
}
