package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mirajcandles/backend/controllers"
	"github.com/mirajcandles/backend/middleware"
)

type Controllers struct {
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
	Reviews  *controllers.ReviewController
	Carts    *controllers.CartController
}

func Register(r *gin.Engine, auth *middleware.Auth, c Controllers) {
	api := r.Group("/api")

	// Public
	api.GET("/reviews/:productId", c.Reviews.GetReviews)

	// Buyer
	buyer := api.Group("")
	buyer.Use(auth.RequireUser())
	buyer.POST("/payment", c.Payments.GenerateQR)
	buyer.POST("/verify-upi-payment", c.Payments.SubmitTransaction)
	buyer.POST("/orders", c.Orders.CreateOrder)
	buyer.GET("/orders", c.Orders.GetOrders)
	buyer.POST("/reviews/:productId", c.Reviews.AddReview)
	buyer.GET("/cart", c.Carts.GetCart)
	buyer.POST("/cart", c.Carts.AddItem)
	buyer.PUT("/cart/:productId", c.Carts.UpdateQuantity)
	buyer.DELETE("/cart/:productId", c.Carts.RemoveItem)
	buyer.DELETE("/clear-cart", c.Carts.ClearCart)

	// Unauthenticated in the source API; kept for client compatibility.
	api.PUT("/orders/:id/status", c.Orders.UpdateStatus)

	// Admin
	admin := api.Group("")
	admin.Use(auth.RequireAdmin())
	admin.GET("/admin/orders", c.Orders.GetAllOrders)
	admin.PUT("/orders/:id/delivery", c.Orders.UpdateDelivery)
	admin.PUT("/admin/verify-payment/:id", c.Payments.VerifyPayment)
}
