package routes

import (
	"erede_gateway/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathTransactions = "/transactions"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	transactions := rg.Group(PathTransactions)
	{
		transactions.POST("", paymentHandler.Authorize)
		transactions.PUT("/:tid", paymentHandler.Capture)
		transactions.GET("/:tid", paymentHandler.Consult)
		transactions.POST("/:tid/refunds", paymentHandler.Cancel)
		transactions.GET("/:tid/history", paymentHandler.History)
	}
}
